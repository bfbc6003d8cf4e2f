package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
)

func TestNominatimProvider_Geocode(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "30.2672",
			"lon": "-97.7431",
			"display_name": "Austin, Travis County, Texas, United States",
			"address": {"city": "Austin", "state": "Texas"}
		}]`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, server.Client())

	loc, err := provider.Geocode(context.Background(), "Austin, TX")
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUserAgent)
	assert.Equal(t, "Austin", loc.City)
	assert.Equal(t, "Texas", loc.State)
	assert.InDelta(t, 30.2672, loc.Coordinates.Latitude, 0.0001)
	assert.InDelta(t, -97.7431, loc.Coordinates.Longitude, 0.0001)
}

func TestNominatimProvider_Geocode_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, server.Client())

	_, err := provider.Geocode(context.Background(), "nowhere at all")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestNominatimProvider_Geocode_EmptyQuery(t *testing.T) {
	provider := NewNominatimProviderWithOptions("http://unused", "test-agent/1.0", nil, nil)

	_, err := provider.Geocode(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestNominatimProvider_Geocode_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, server.Client())

	_, err := provider.Geocode(context.Background(), "Austin, TX")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"lat": "40.7128",
			"lon": "-74.006",
			"display_name": "New York, United States",
			"address": {"city": "New York", "state": "New York"}
		}`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, "test-agent/1.0", nil, server.Client())

	loc, err := provider.ReverseGeocode(context.Background(), 40.7128, -74.006)
	require.NoError(t, err)
	assert.Equal(t, "New York", loc.City)
	assert.Equal(t, "New York", loc.State)
}
