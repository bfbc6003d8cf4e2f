package providers

import "context"

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// ContinentalUSCenter is the fallback reference point every geocoding call
// site substitutes on failure, so downstream distance math always has a
// valid number to compute against.
var ContinentalUSCenter = Coordinates{Latitude: 39.8283, Longitude: -98.5795}

// GeocodedLocation is a resolved place with display metadata.
type GeocodedLocation struct {
	DisplayName string
	City        string
	State       string
	Coordinates Coordinates
}

// GeocodingProvider defines the interface for the external geocoding service.
// Implementations never require an API key; they identify themselves with a
// descriptive User-Agent instead.
type GeocodingProvider interface {
	// Geocode converts a free-text query to a location
	Geocode(ctx context.Context, query string) (*GeocodedLocation, error)

	// ReverseGeocode converts coordinates to a location
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedLocation, error)
}
