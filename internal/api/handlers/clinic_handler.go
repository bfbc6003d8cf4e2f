package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
)

// ClinicSearcher runs one search request.
type ClinicSearcher interface {
	Search(ctx context.Context, req services.SearchRequest) (*entities.SearchPage, error)
}

// ClinicHandler handles clinic-related HTTP requests
type ClinicHandler struct {
	clinicService     *services.ClinicService
	searchService     ClinicSearcher
	suggestionService *services.SuggestionService
	analyticsService  *services.SearchAnalyticsService
	clinicRepo        repositories.ClinicRepository
}

// NewClinicHandler creates a new clinic handler
func NewClinicHandler(
	clinicService *services.ClinicService,
	searchService ClinicSearcher,
	suggestionService *services.SuggestionService,
	analyticsService *services.SearchAnalyticsService,
	clinicRepo repositories.ClinicRepository,
) *ClinicHandler {
	return &ClinicHandler{
		clinicService:     clinicService,
		searchService:     searchService,
		suggestionService: suggestionService,
		analyticsService:  analyticsService,
		clinicRepo:        clinicRepo,
	}
}

// allowedSearchParams is the complete set of query keys the search endpoint
// accepts. Anything else is rejected outright rather than silently ignored,
// so typos surface to the caller immediately.
var allowedSearchParams = map[string]bool{
	"q":         true,
	"state":     true,
	"city":      true,
	"services":  true,
	"tier":      true,
	"verified":  true,
	"radius":    true,
	"lat":       true,
	"lng":       true,
	"location":  true,
	"page_size": true,
	"cursor":    true,
}

// SearchClinics handles GET /api/clinics/search
func (h *ClinicHandler) SearchClinics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var unknown []string
	for key := range query {
		if !allowedSearchParams[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown query parameters: %s", strings.Join(unknown, ", ")))
		return
	}

	req, err := buildSearchRequest(query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	req.SessionID = r.Header.Get("X-Search-Session")

	page, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, searchResponse(page))
}

func buildSearchRequest(query url.Values) (services.SearchRequest, error) {
	get := func(key string) string {
		return strings.TrimSpace(query.Get(key))
	}

	req := services.SearchRequest{
		Location: get("location"),
		Cursor:   get("cursor"),
		Filters: services.Filters{
			SearchTerm: get("q"),
			State:      get("state"),
			City:       get("city"),
			Tier:       get("tier"),
		},
	}

	if raw := get("services"); raw != "" {
		for _, svc := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(svc); trimmed != "" {
				req.Filters.Services = append(req.Filters.Services, trimmed)
			}
		}
	}

	if raw := get("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			return req, apperrors.NewValidationError("verified must be a boolean")
		}
		req.Filters.VerifiedOnly = verified
	}

	if raw := get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, apperrors.NewValidationError("radius must be a number")
		}
		req.Filters.RadiusMiles = radius
	}

	rawLat, rawLng := get("lat"), get("lng")
	if rawLat != "" || rawLng != "" {
		lat, latErr := strconv.ParseFloat(rawLat, 64)
		lng, lngErr := strconv.ParseFloat(rawLng, 64)
		if latErr != nil || lngErr != nil {
			return req, apperrors.NewValidationError("lat and lng must both be numbers")
		}
		req.Filters.Origin = &providers.Coordinates{Latitude: lat, Longitude: lng}
	}

	if raw := get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return req, apperrors.NewValidationError("page_size must be a positive integer")
		}
		req.PageSize = size
	}

	return req, nil
}

func searchResponse(page *entities.SearchPage) map[string]interface{} {
	resp := map[string]interface{}{
		"clinics":     page.Clinics,
		"count":       len(page.Clinics),
		"next_cursor": page.NextCursor,
		"has_more":    page.HasMore,
	}
	if page.Origin != nil {
		resp["origin"] = page.Origin
	}
	return resp
}

// GetClinic handles GET /api/clinics/{id}
func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	clinic, err := h.clinicService.GetByID(r.Context(), clinicID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, clinic)
}

// GetClinicBySlug handles GET /api/clinics/slug/{slug}
func (h *ClinicHandler) GetClinicBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "clinic slug is required")
		return
	}

	clinic, err := h.clinicService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, clinic)
}

// ListClinics handles GET /api/clinics
func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	query := repositories.ClinicQuery{
		State:      r.URL.Query().Get("state"),
		City:       r.URL.Query().Get("city"),
		Tier:       r.URL.Query().Get("tier"),
		ActiveOnly: true,
	}

	pageSize := 30
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 && size <= 100 {
			pageSize = size
		}
	}

	page, err := h.clinicRepo.FetchPage(r.Context(), query, pageSize, r.URL.Query().Get("cursor"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinics":     page.Clinics,
		"count":       len(page.Clinics),
		"next_cursor": page.NextCursor,
		"has_more":    page.HasMore,
	})
}

// Suggest handles GET /api/clinics/suggest
func (h *ClinicHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")

	maxResults := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			maxResults = limit
		}
	}

	suggestions, err := h.suggestionService.Suggest(r.Context(), partial, maxResults)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, suggestions)
}

// RecordClick handles POST /api/clinics/{id}/clicks
func (h *ClinicHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	var body struct {
		SearchTerm string `json:"search_term"`
	}
	if r.Body != nil {
		// A missing or empty body is fine; the click still counts.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if err := h.clinicService.RecordClick(r.Context(), clinicID, body.SearchTerm); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// CreateClinic handles POST /api/clinics
func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var clinic entities.Clinic
	if err := json.NewDecoder(r.Body).Decode(&clinic); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(clinic.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "clinic name is required")
		return
	}

	if err := h.clinicService.Create(r.Context(), &clinic); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, clinic)
}

// UpdateClinic handles PUT /api/clinics/{id}
func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	var clinic entities.Clinic
	if err := json.NewDecoder(r.Body).Decode(&clinic); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	clinic.ID = clinicID

	if err := h.clinicService.Update(r.Context(), &clinic); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, clinic)
}

// DeleteClinic handles DELETE /api/clinics/{id}
func (h *ClinicHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	if err := h.clinicService.Delete(r.Context(), clinicID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ZeroResultQueries handles GET /api/analytics/zero-results
func (h *ClinicHandler) ZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	events, err := h.analyticsService.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := appErr.HTTPStatus()
		message := appErr.Message
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
		respondWithError(w, status, message)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
