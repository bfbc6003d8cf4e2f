package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/observability"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchRequest carries one search invocation's inputs.
type SearchRequest struct {
	Filters Filters

	// Location is a free-text place ("Austin, TX") geocoded into the
	// reference point when Filters.Origin is not already set.
	Location string

	// SessionID identifies the client session issuing the search. Searches
	// carrying the same non-empty id supersede each other; see SearchSession.
	SessionID string

	PageSize int
	Cursor   string
}

// SearchService runs the search pipeline: fetch candidates with coarse
// filters, annotate distances, apply client-side filters, rank, paginate.
// Every stage after the fetch is synchronous over the in-memory page.
type SearchService struct {
	repo       repositories.ClinicRepository
	searchRepo repositories.ClinicSearchRepository
	geocoder   providers.GeocodingProvider
	ranker     *RankingService
	analytics  *SearchAnalyticsService
	metrics    *observability.Metrics
}

// NewSearchService creates a new search service. searchRepo, analytics and
// metrics are optional.
func NewSearchService(
	repo repositories.ClinicRepository,
	searchRepo repositories.ClinicSearchRepository,
	geocoder providers.GeocodingProvider,
	analytics *SearchAnalyticsService,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		repo:       repo,
		searchRepo: searchRepo,
		geocoder:   geocoder,
		ranker:     NewRankingService(),
		analytics:  analytics,
		metrics:    metrics,
	}
}

// Search executes one pass of the pipeline and returns the result envelope.
// An empty result set is a normal outcome, not an error; store failures
// surface as typed errors so the caller can offer a retry.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*entities.SearchPage, error) {
	start := time.Now()

	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	origin := s.resolveOrigin(ctx, &req)

	page, err := s.fetchCandidates(ctx, req, pageSize)
	if err != nil {
		return nil, err
	}

	ranked := s.ranker.Annotate(page.Clinics, origin)
	ranked = ApplyFilters(ranked, req.Filters)
	s.ranker.Rank(ranked, origin != nil)

	result := &entities.SearchPage{
		Clinics:    ranked,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
	if origin != nil {
		result.Origin = &entities.Location{Latitude: origin.Latitude, Longitude: origin.Longitude}
	}

	s.recordSearch(ctx, req, origin, len(ranked), time.Since(start))

	return result, nil
}

// resolveOrigin picks the reference point for distance math. Geocoding
// failure is never fatal: the continental-US centroid is substituted so
// downstream stages always have valid numbers.
func (s *SearchService) resolveOrigin(ctx context.Context, req *SearchRequest) *providers.Coordinates {
	if req.Filters.Origin != nil {
		return req.Filters.Origin
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil
	}

	loc, err := s.geocoder.Geocode(ctx, location)
	if err != nil || loc == nil {
		log.Warn().Err(err).Str("location", location).Msg("geocoding failed, using default reference point")
		if s.metrics != nil {
			s.metrics.RecordGeocodeFallback(ctx)
		}
		fallback := providers.ContinentalUSCenter
		return &fallback
	}

	return &loc.Coordinates
}

// fetchCandidates retrieves one page of raw candidates. Keyword searches go
// through the full-text index when it is configured, first page and cursored
// continuations alike, so the cursor a client holds always resumes the path
// that minted it. Everything else uses the primary store, as does a keyword
// search whose first index fetch fails; a cursored index fetch that fails
// surfaces the error instead, because the primary store cannot resume an
// index cursor.
func (s *SearchService) fetchCandidates(ctx context.Context, req SearchRequest, pageSize int) (*repositories.ClinicPage, error) {
	query := buildClinicQuery(req.Filters)

	if req.Filters.SearchTerm != "" && s.searchRepo != nil {
		page, err := s.searchRepo.Search(ctx, req.Filters.SearchTerm, query, pageSize, req.Cursor)
		if err == nil {
			return page, nil
		}
		if req.Cursor != "" {
			return nil, err
		}
		log.Warn().Err(err).Msg("index search failed, falling back to primary store")
	}

	return s.repo.FetchPage(ctx, query, pageSize, req.Cursor)
}

// buildClinicQuery lowers the filters the store can evaluate itself into a
// coarse query; the rest stays client-side.
func buildClinicQuery(f Filters) repositories.ClinicQuery {
	services := f.Services
	if len(services) > repositories.MaxServiceFilterValues {
		services = services[:repositories.MaxServiceFilterValues]
	}
	return repositories.ClinicQuery{
		State:        f.State,
		City:         f.City,
		Tier:         f.Tier,
		Services:     services,
		VerifiedOnly: f.VerifiedOnly,
		ActiveOnly:   true,
	}
}

func (s *SearchService) recordSearch(ctx context.Context, req SearchRequest, origin *providers.Coordinates, resultCount int, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordSearchResults(ctx, int64(resultCount))
	}
	if s.analytics == nil {
		return
	}

	event := &entities.SearchEvent{
		Query:       req.Filters.SearchTerm,
		State:       req.Filters.State,
		City:        req.Filters.City,
		ResultCount: resultCount,
		LatencyMs:   elapsed.Milliseconds(),
	}
	if origin != nil {
		event.UserLatitude = origin.Latitude
		event.UserLongitude = origin.Longitude
	}
	s.analytics.TrackSearch(event)
}
