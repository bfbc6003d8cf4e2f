package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	tsclient "github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/typesense"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

const collectionName = tsclient.ClinicsCollection

// TypesenseAdapter implements clinic keyword search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ClinicSearchRepository
var _ repositories.ClinicSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a clinic document
func (a *TypesenseAdapter) Index(ctx context.Context, clinic *entities.Clinic) error {
	document := map[string]interface{}{
		"id":               clinic.ID,
		"slug":             clinic.Slug,
		"name":             clinic.Name,
		"city":             clinic.Address.City,
		"state":            clinic.Address.State,
		"tier":             utils.NormalizeTier(clinic.Tier),
		"verified":         clinic.Verified,
		"is_active":        clinic.IsActive,
		"services":         clinic.Services,
		"searchable_terms": clinic.SearchableTerms,
		"tags":             clinic.Tags,
		"total_clicks":     clinic.TrafficMeta.TotalClicks,
		"created_at":       clinic.CreatedAt.Unix(),
	}
	if clinic.HasCoordinates() {
		document["location"] = []float64{clinic.Location.Latitude, clinic.Location.Longitude}
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index clinic: %w", err)
	}

	return nil
}

// Delete removes a clinic from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete clinic from index: %w", err)
	}
	return nil
}

// searchCursor continues a keyword query at a given index page. Serialized
// the same way as the primary store's cursor but the two token spaces are
// distinct: an index cursor only ever resumes an index search.
type searchCursor struct {
	Page int `json:"page"`
}

func encodeSearchCursor(page int) string {
	data, err := json.Marshal(searchCursor{Page: page})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeSearchCursor(cursor string) (int, error) {
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid page cursor")
	}
	var c searchCursor
	if err := json.Unmarshal(data, &c); err != nil || c.Page < 1 {
		return 0, apperrors.NewValidationError("invalid page cursor")
	}
	return c.Page, nil
}

// Search runs a keyword query against the index. Coarse filters translate to
// Typesense filter_by clauses; fuzzy keyword matching is the engine's job.
// HasMore comes from the engine's total hit count, and the minted cursor
// resumes at the next index page.
func (a *TypesenseAdapter) Search(ctx context.Context, term string, query repositories.ClinicQuery, pageSize int, cursor string) (*repositories.ClinicPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	pageNum := 1
	if cursor != "" {
		var err error
		if pageNum, err = decodeSearchCursor(cursor); err != nil {
			return nil, err
		}
	}

	q := strings.TrimSpace(term)
	if q == "" {
		q = "*"
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(q),
		QueryBy:  pointer.String("name,searchable_terms,services,city,state,tags"),
		FilterBy: pointer.String(buildFilterBy(query)),
		Page:     pointer.Int(pageNum),
		PerPage:  pointer.Int(pageSize),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search clinics: %w", err)
	}

	page := &repositories.ClinicPage{Clinics: []*entities.Clinic{}}
	if result.Hits != nil {
		for _, hit := range *result.Hits {
			doc := *hit.Document
			page.Clinics = append(page.Clinics, documentToClinic(doc))
		}
	}

	if result.Found != nil && *result.Found > pageNum*pageSize {
		page.HasMore = true
		page.NextCursor = encodeSearchCursor(pageNum + 1)
	}

	return page, nil
}

func buildFilterBy(query repositories.ClinicQuery) string {
	clauses := []string{}
	if query.ActiveOnly {
		clauses = append(clauses, "is_active:=true")
	}
	if query.State != "" {
		clauses = append(clauses, fmt.Sprintf("state:=%s", query.State))
	}
	if query.City != "" {
		clauses = append(clauses, fmt.Sprintf("city:=%s", query.City))
	}
	if query.Tier != "" {
		clauses = append(clauses, fmt.Sprintf("tier:=%s", utils.NormalizeTier(query.Tier)))
	}
	if query.VerifiedOnly {
		clauses = append(clauses, "verified:=true")
	}
	if len(query.Services) > 0 {
		services := query.Services
		if len(services) > repositories.MaxServiceFilterValues {
			services = services[:repositories.MaxServiceFilterValues]
		}
		clauses = append(clauses, fmt.Sprintf("services:=[%s]", strings.Join(services, ",")))
	}
	if len(clauses) == 0 {
		return "is_active:=true"
	}
	return strings.Join(clauses, " && ")
}

// documentToClinic rebuilds a clinic entity from the index document.
// Typesense hands back map[string]interface{}, so every cast is guarded.
func documentToClinic(doc map[string]interface{}) *entities.Clinic {
	clinic := &entities.Clinic{}

	if v, ok := doc["id"].(string); ok {
		clinic.ID = v
	}
	if v, ok := doc["slug"].(string); ok {
		clinic.Slug = v
	}
	if v, ok := doc["name"].(string); ok {
		clinic.Name = v
	}
	if v, ok := doc["city"].(string); ok {
		clinic.Address.City = v
	}
	if v, ok := doc["state"].(string); ok {
		clinic.Address.State = v
	}
	if v, ok := doc["tier"].(string); ok {
		clinic.Tier = utils.NormalizeTier(v)
	}
	if v, ok := doc["verified"].(bool); ok {
		clinic.Verified = v
	}
	if v, ok := doc["is_active"].(bool); ok {
		clinic.IsActive = v
	}
	clinic.Services = stringSlice(doc["services"])
	clinic.SearchableTerms = stringSlice(doc["searchable_terms"])
	clinic.Tags = stringSlice(doc["tags"])
	if v, ok := doc["total_clicks"].(float64); ok {
		clinic.TrafficMeta.TotalClicks = int64(v)
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			clinic.Location.Latitude = lat
		}
		if lng, ok := loc[1].(float64); ok {
			clinic.Location.Longitude = lng
		}
	}
	if v, ok := doc["created_at"].(float64); ok {
		clinic.CreatedAt = time.Unix(int64(v), 0)
	}

	return clinic
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
