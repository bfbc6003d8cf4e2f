package geocoding

import (
	"context"
	"fmt"
	"strings"

	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
)

// MockGeocodingProvider implements a mock geocoding provider for local
// development without hitting the real service.
type MockGeocodingProvider struct{}

// NewMockGeocodingProvider creates a new mock geocoding provider
func NewMockGeocodingProvider() providers.GeocodingProvider {
	return &MockGeocodingProvider{}
}

var mockLocations = map[string]providers.GeocodedLocation{
	"new york":    {DisplayName: "New York, NY", City: "New York", State: "New York", Coordinates: providers.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	"los angeles": {DisplayName: "Los Angeles, CA", City: "Los Angeles", State: "California", Coordinates: providers.Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
	"chicago":     {DisplayName: "Chicago, IL", City: "Chicago", State: "Illinois", Coordinates: providers.Coordinates{Latitude: 41.8781, Longitude: -87.6298}},
	"houston":     {DisplayName: "Houston, TX", City: "Houston", State: "Texas", Coordinates: providers.Coordinates{Latitude: 29.7604, Longitude: -95.3698}},
	"austin":      {DisplayName: "Austin, TX", City: "Austin", State: "Texas", Coordinates: providers.Coordinates{Latitude: 30.2672, Longitude: -97.7431}},
	"phoenix":     {DisplayName: "Phoenix, AZ", City: "Phoenix", State: "Arizona", Coordinates: providers.Coordinates{Latitude: 33.4484, Longitude: -112.0740}},
}

// Geocode converts a free-text query to a location (mock implementation)
func (m *MockGeocodingProvider) Geocode(ctx context.Context, query string) (*providers.GeocodedLocation, error) {
	lowered := strings.ToLower(query)
	for name, loc := range mockLocations {
		if strings.Contains(lowered, name) {
			found := loc
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no results for query")
}

// ReverseGeocode converts coordinates to a location (mock implementation)
func (m *MockGeocodingProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedLocation, error) {
	return &providers.GeocodedLocation{
		DisplayName: fmt.Sprintf("%f, %f", lat, lon),
		City:        "Austin",
		State:       "Texas",
		Coordinates: providers.Coordinates{Latitude: lat, Longitude: lon},
	}, nil
}
