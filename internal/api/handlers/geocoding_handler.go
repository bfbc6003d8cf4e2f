package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
)

// GeocodingHandler handles geocoding endpoints.
type GeocodingHandler struct {
	provider providers.GeocodingProvider
}

// NewGeocodingHandler creates a new geocoding handler.
func NewGeocodingHandler(provider providers.GeocodingProvider) *GeocodingHandler {
	return &GeocodingHandler{provider: provider}
}

// Geocode handles GET /api/geocode?q=...
func (h *GeocodingHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	loc, err := h.provider.Geocode(r.Context(), query)
	if err != nil {
		// Callers always get a usable reference point: the continental US
		// centroid stands in when the upstream cannot resolve the query.
		log.Warn().Str("query", query).Err(err).Msg("geocode failed, returning fallback location")
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"query":    query,
			"lat":      providers.ContinentalUSCenter.Latitude,
			"lng":      providers.ContinentalUSCenter.Longitude,
			"fallback": true,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":        query,
		"display_name": loc.DisplayName,
		"city":         loc.City,
		"state":        loc.State,
		"lat":          loc.Coordinates.Latitude,
		"lng":          loc.Coordinates.Longitude,
		"fallback":     false,
	})
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lng=...
func (h *GeocodingHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lng parameter")
		return
	}

	loc, err := h.provider.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		log.Warn().Float64("lat", lat).Float64("lng", lng).Err(err).Msg("reverse geocode failed")
		respondWithError(w, http.StatusBadGateway, "failed to reverse geocode")
		return
	}

	respondWithJSON(w, http.StatusOK, loc)
}
