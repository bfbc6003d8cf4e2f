package repositories

import (
	"context"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
)

// MaxServiceFilterValues caps the service list passed to an array-overlap
// store query, matching the backing store's "array contains any" limit.
const MaxServiceFilterValues = 10

// ClinicQuery holds the coarse filters the store can evaluate itself.
// Fine-grained matching (radius, keyword variants) happens after the fetch.
type ClinicQuery struct {
	State        string
	City         string
	Tier         string
	Services     []string // overlap, OR within the key, capped at MaxServiceFilterValues
	VerifiedOnly bool
	ActiveOnly   bool
}

// ClinicPage is one page of candidates plus the opaque continuation token.
type ClinicPage struct {
	Clinics    []*entities.Clinic
	NextCursor string
	HasMore    bool
}

// ClinicRepository defines the interface for clinic data operations
type ClinicRepository interface {
	// Create creates a new clinic listing
	Create(ctx context.Context, clinic *entities.Clinic) error

	// GetByID retrieves a clinic by ID
	GetByID(ctx context.Context, id string) (*entities.Clinic, error)

	// GetBySlug retrieves a clinic by its URL slug
	GetBySlug(ctx context.Context, slug string) (*entities.Clinic, error)

	// Update updates a clinic listing
	Update(ctx context.Context, clinic *entities.Clinic) error

	// Delete deactivates a clinic listing
	Delete(ctx context.Context, id string) error

	// FetchPage retrieves one page of candidates for the given coarse
	// filters. The cursor is opaque: callers pass back the token from the
	// previous page verbatim, or "" for the first page.
	FetchPage(ctx context.Context, query ClinicQuery, pageSize int, cursor string) (*ClinicPage, error)

	// IncrementClicks atomically bumps the click counter for a listing and
	// records the search term that led to it.
	IncrementClicks(ctx context.Context, id, searchTerm string) error
}

// ClinicSearchRepository defines the interface for the full-text index.
type ClinicSearchRepository interface {
	// Search runs a keyword query against the index and returns one page of
	// hits. Like FetchPage, the cursor is an opaque token minted by the
	// adapter; callers pass back the previous page's token verbatim, or ""
	// for the first page. Index cursors and primary-store cursors are not
	// interchangeable.
	Search(ctx context.Context, term string, query ClinicQuery, pageSize int, cursor string) (*ClinicPage, error)

	// Index upserts a clinic document
	Index(ctx context.Context, clinic *entities.Clinic) error

	// Delete removes a clinic from the index
	Delete(ctx context.Context, id string) error
}
