package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
)

// capturingAnalyticsRepo collects logged events on a channel so tests can
// wait for the background write.
type capturingAnalyticsRepo struct {
	events chan *entities.SearchEvent
	zero   []*entities.SearchEvent
	err    error
}

func (r *capturingAnalyticsRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events <- event
	return nil
}

func (r *capturingAnalyticsRepo) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return r.zero, r.err
}

func TestSearchAnalyticsService_TrackSearch(t *testing.T) {
	t.Run("logs the event in the background", func(t *testing.T) {
		repo := &capturingAnalyticsRepo{events: make(chan *entities.SearchEvent, 1)}
		service := services.NewSearchAnalyticsService(repo)

		service.TrackSearch(&entities.SearchEvent{Query: "trt austin", ResultCount: 3})

		select {
		case event := <-repo.events:
			assert.Equal(t, "trt austin", event.Query)
			assert.Equal(t, 3, event.ResultCount)
		case <-time.After(2 * time.Second):
			t.Fatal("event was never logged")
		}
	})

	t.Run("repository failure is swallowed", func(t *testing.T) {
		repo := &capturingAnalyticsRepo{err: errors.New("insert failed")}
		service := services.NewSearchAnalyticsService(repo)

		// Must not panic or block the caller.
		service.TrackSearch(&entities.SearchEvent{Query: "nothing"})
	})
}

func TestSearchAnalyticsService_GetZeroResultQueries(t *testing.T) {
	repo := &capturingAnalyticsRepo{
		zero: []*entities.SearchEvent{{Query: "cryotherapy wyoming", ResultCount: 0}},
	}
	service := services.NewSearchAnalyticsService(repo)

	events, err := service.GetZeroResultQueries(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "cryotherapy wyoming", events[0].Query)
}
