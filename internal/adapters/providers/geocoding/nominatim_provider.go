package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
)

const (
	defaultBaseURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent   = "MensHealthFinder/1.0 (clinic directory; support@menshealthfinder.com)"
	geocodeCacheTTL    = 60 * 60 * 24 * 30 // resolved places rarely move
	defaultHTTPTimeout = 8 * time.Second
)

// NominatimProvider implements GeocodingProvider against a Nominatim-style
// endpoint. The service is keyless; requests carry a descriptive User-Agent
// per the usage policy. A circuit breaker shields callers from a flapping
// upstream so searches degrade to the fallback location instead of hanging.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      providers.CacheProvider
	breaker    *gobreaker.CircuitBreaker
}

// NewNominatimProvider creates a new Nominatim geocoding provider.
func NewNominatimProvider(baseURL, userAgent string, cache providers.CacheProvider) providers.GeocodingProvider {
	return NewNominatimProviderWithOptions(baseURL, userAgent, cache, nil)
}

// NewNominatimProviderWithOptions allows overriding the HTTP client (used for tests).
func NewNominatimProviderWithOptions(baseURL, userAgent string, cache providers.CacheProvider, httpClient *http.Client) providers.GeocodingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &NominatimProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
		breaker:    breaker,
	}
}

// nominatimResult is the subset of the response body the provider reads.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City   string `json:"city"`
		Town   string `json:"town"`
		Hamlet string `json:"hamlet"`
		State  string `json:"state"`
	} `json:"address"`
}

// Geocode converts a free-text query to a location.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*providers.GeocodedLocation, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("geocode query is required")
	}

	cacheKey := "geo:search:" + hashKey(strings.ToLower(trimmed))
	if cached := p.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{
		"q":              []string{trimmed},
		"format":         []string{"json"},
		"limit":          []string{"1"},
		"addressdetails": []string{"1"},
		"countrycodes":   []string{"us"},
	}

	loc, err := p.request(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	p.toCache(ctx, cacheKey, loc)
	return loc, nil
}

// ReverseGeocode converts coordinates to a location.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedLocation, error) {
	cacheKey := "geo:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lon))
	if cached := p.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{
		"lat":            []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            []string{strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         []string{"json"},
		"addressdetails": []string{"1"},
	}

	loc, err := p.request(ctx, "/reverse", params)
	if err != nil {
		return nil, err
	}

	p.toCache(ctx, cacheKey, loc)
	return loc, nil
}

func (p *NominatimProvider) request(ctx context.Context, path string, params url.Values) (*providers.GeocodedLocation, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.doRequest(ctx, path, params)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, apperrors.NewExternalError("geocoding service unavailable", err)
	}
	if err != nil {
		return nil, err
	}
	return result.(*providers.GeocodedLocation), nil
}

func (p *NominatimProvider) doRequest(ctx context.Context, path string, params url.Values) (*providers.GeocodedLocation, error) {
	endpoint := p.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build geocode request", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("geocoding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(fmt.Sprintf("geocoding service returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read geocode response", err)
	}

	var result nominatimResult
	if path == "/search" {
		var results []nominatimResult
		if err := json.Unmarshal(body, &results); err != nil {
			return nil, apperrors.NewExternalError("failed to decode geocode response", err)
		}
		if len(results) == 0 {
			return nil, apperrors.NewNotFoundError("no results for query")
		}
		result = results[0]
	} else {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, apperrors.NewExternalError("failed to decode geocode response", err)
		}
		if result.Lat == "" || result.Lon == "" {
			return nil, apperrors.NewNotFoundError("no results for coordinates")
		}
	}

	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid latitude in geocode response", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid longitude in geocode response", err)
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Hamlet
	}

	return &providers.GeocodedLocation{
		DisplayName: result.DisplayName,
		City:        city,
		State:       result.Address.State,
		Coordinates: providers.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
	}, nil
}

func (p *NominatimProvider) fromCache(ctx context.Context, key string) *providers.GeocodedLocation {
	if p.cache == nil {
		return nil
	}
	cached, err := p.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return nil
	}
	var loc providers.GeocodedLocation
	if err := json.Unmarshal(cached, &loc); err != nil {
		return nil
	}
	if loc.Coordinates.Latitude == 0 && loc.Coordinates.Longitude == 0 {
		return nil
	}
	return &loc
}

func (p *NominatimProvider) toCache(ctx context.Context, key string, loc *providers.GeocodedLocation) {
	if p.cache == nil {
		return
	}
	if payload, err := json.Marshal(loc); err == nil {
		_ = p.cache.Set(ctx, key, payload, geocodeCacheTTL)
	}
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
