package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
)

// SearchAnalyticsService records executed searches for the monitoring panel.
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

// NewSearchAnalyticsService creates a new search analytics service
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch logs a search event in the background so it never blocks or
// fails the user request.
func (s *SearchAnalyticsService) TrackSearch(event *entities.SearchEvent) {
	go func() {
		// Fresh context: the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("query", event.Query).Msg("failed to log search event")
		}
	}()
}

// GetZeroResultQueries lists recent searches that returned nothing.
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
