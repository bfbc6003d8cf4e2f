package routes

import (
	"net/http"

	"github.com/menshealthfinder/clinicfinder/internal/api/handlers"
	"github.com/menshealthfinder/clinicfinder/internal/api/middleware"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	clinicHandler    *handlers.ClinicHandler
	geocodingHandler *handlers.GeocodingHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	clinicHandler *handlers.ClinicHandler,
	geocodingHandler *handlers.GeocodingHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		clinicHandler:    clinicHandler,
		geocodingHandler: geocodingHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Clinic endpoints
	r.mux.HandleFunc("GET /api/clinics", r.clinicHandler.ListClinics)
	r.mux.HandleFunc("GET /api/clinics/search", r.clinicHandler.SearchClinics)
	r.mux.HandleFunc("GET /api/clinics/suggest", r.clinicHandler.Suggest)
	r.mux.HandleFunc("GET /api/clinics/slug/{slug}", r.clinicHandler.GetClinicBySlug)
	r.mux.HandleFunc("GET /api/clinics/{id}", r.clinicHandler.GetClinic)
	r.mux.HandleFunc("POST /api/clinics/{id}/clicks", r.clinicHandler.RecordClick)

	// Admin write path
	r.mux.HandleFunc("POST /api/clinics", r.clinicHandler.CreateClinic)
	r.mux.HandleFunc("PUT /api/clinics/{id}", r.clinicHandler.UpdateClinic)
	r.mux.HandleFunc("DELETE /api/clinics/{id}", r.clinicHandler.DeleteClinic)

	// Geocoding endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geocodingHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geocodingHandler.ReverseGeocode)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.clinicHandler.ZeroResultQueries)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.Compression(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
