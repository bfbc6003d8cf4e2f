package repositories

import (
	"context"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
)

// SearchAnalyticsRepository stores search events for the monitoring panel.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
