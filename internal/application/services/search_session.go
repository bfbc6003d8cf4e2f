package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
)

// ErrSuperseded is returned when a newer search started while this one was
// in flight. Callers drop the result instead of rendering stale state.
var ErrSuperseded = apperrors.NewConflictError("search superseded by a newer query")

// SearchSession serializes a stream of searches from one consumer (one
// browser session) and guards against late-arriving responses: each call
// takes a generation token, and a result whose token is no longer current
// is discarded. In-flight fetches are not cancelled, only ignored.
type SearchSession struct {
	svc *SearchService
	gen atomic.Uint64
}

// NewSearchSession creates a session-scoped wrapper around the service.
func NewSearchSession(svc *SearchService) *SearchSession {
	return &SearchSession{svc: svc}
}

// Search runs the query and returns ErrSuperseded if a newer Search call
// began before this one completed.
func (s *SearchSession) Search(ctx context.Context, req SearchRequest) (*entities.SearchPage, error) {
	token := s.gen.Add(1)

	page, err := s.svc.Search(ctx, req)

	if s.gen.Load() != token {
		return nil, ErrSuperseded
	}
	return page, err
}

// maxTrackedSessions caps the session table. Sessions carry no state beyond
// a counter, so clearing the table on overflow only costs a lost supersede
// check for searches already in flight.
const maxTrackedSessions = 4096

// SearchSessionManager hands out one SearchSession per client session id so
// each browser tab gets its own supersede scope. Requests without an id
// bypass the guard entirely.
type SearchSessionManager struct {
	svc *SearchService

	mu       sync.Mutex
	sessions map[string]*SearchSession
}

// NewSearchSessionManager creates a session manager over the service.
func NewSearchSessionManager(svc *SearchService) *SearchSessionManager {
	return &SearchSessionManager{
		svc:      svc,
		sessions: make(map[string]*SearchSession),
	}
}

// Search routes the request through the caller's session guard when the
// request carries a session id, and straight to the service otherwise.
func (m *SearchSessionManager) Search(ctx context.Context, req SearchRequest) (*entities.SearchPage, error) {
	if req.SessionID == "" {
		return m.svc.Search(ctx, req)
	}
	return m.session(req.SessionID).Search(ctx, req)
}

func (m *SearchSessionManager) session(id string) *SearchSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	if len(m.sessions) >= maxTrackedSessions {
		m.sessions = make(map[string]*SearchSession)
	}
	s := NewSearchSession(m.svc)
	m.sessions[id] = s
	return s
}
