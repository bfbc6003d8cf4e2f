package entities

import (
	"time"

	"github.com/menshealthfinder/clinicfinder/pkg/geo"
)

// maxTopSearchTerms bounds the per-clinic search-term history.
const maxTopSearchTerms = 20

// Clinic represents one directory listing.
type Clinic struct {
	ID              string      `json:"id" db:"id"`
	Slug            string      `json:"slug" db:"slug"`
	Name            string      `json:"name" db:"name"`
	Address         Address     `json:"address" db:"-"`
	Location        Location    `json:"location" db:"-"`
	PhoneNumber     string      `json:"phone_number,omitempty" db:"phone_number"`
	Website         string      `json:"website,omitempty" db:"website"`
	Description     string      `json:"description,omitempty" db:"description"`
	Tier            string      `json:"tier" db:"tier"`
	Services        []string    `json:"services" db:"-"`
	SearchableTerms []string    `json:"searchable_terms,omitempty" db:"-"`
	Tags            []string    `json:"tags,omitempty" db:"-"`
	TrafficMeta     TrafficMeta `json:"traffic_meta" db:"-"`
	Verified        bool        `json:"verified" db:"verified"`
	IsActive        bool        `json:"is_active" db:"is_active"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street,omitempty" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code,omitempty" db:"zip_code"`
}

// Location represents geographical coordinates. The zero value means the
// listing has no usable coordinates.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// TrafficMeta carries engagement counters for a listing.
type TrafficMeta struct {
	TotalClicks    int64    `json:"total_clicks"`
	TopSearchTerms []string `json:"top_search_terms,omitempty"`
}

// HasCoordinates reports whether the listing can take part in distance math.
// A listing without coordinates is still a valid, displayable result.
func (c *Clinic) HasCoordinates() bool {
	return geo.ValidCoordinates(c.Location.Latitude, c.Location.Longitude)
}

// RecordSearchTerm appends a search term to the bounded term history,
// evicting the oldest entry once the cap is reached.
func (t *TrafficMeta) RecordSearchTerm(term string) {
	if term == "" {
		return
	}
	t.TopSearchTerms = append(t.TopSearchTerms, term)
	if len(t.TopSearchTerms) > maxTopSearchTerms {
		t.TopSearchTerms = t.TopSearchTerms[len(t.TopSearchTerms)-maxTopSearchTerms:]
	}
}
