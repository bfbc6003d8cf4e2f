package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
)

// CachedClinicAdapter wraps a ClinicRepository with read-through caching
type CachedClinicAdapter struct {
	adapter repositories.ClinicRepository
	cache   providers.CacheProvider
}

// NewCachedClinicAdapter creates a new cached clinic adapter
func NewCachedClinicAdapter(adapter repositories.ClinicRepository, cache providers.CacheProvider) repositories.ClinicRepository {
	return &CachedClinicAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	clinicByIDTTL  = 300 // 5 minutes for single clinic
	clinicPageTTL  = 120 // 2 minutes for listing pages
	clinicSlugTTL  = 300
	clinicPagePref = "clinics:page:"
)

func clinicCacheKey(id string) string {
	return fmt.Sprintf("clinic:id:%s", id)
}

func clinicSlugCacheKey(slug string) string {
	return fmt.Sprintf("clinic:slug:%s", slug)
}

func clinicPageCacheKey(filter repositories.ClinicQuery, pageSize int, cursor string) string {
	params, _ := json.Marshal(filter)
	return fmt.Sprintf("%s%s:%d:%s", clinicPagePref, params, pageSize, cursor)
}

// GetByID retrieves a clinic by ID with caching
func (a *CachedClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	return a.getCached(ctx, clinicCacheKey(id), func() (*entities.Clinic, error) {
		return a.adapter.GetByID(ctx, id)
	})
}

// GetBySlug retrieves a clinic by slug with caching
func (a *CachedClinicAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Clinic, error) {
	return a.getCached(ctx, clinicSlugCacheKey(slug), func() (*entities.Clinic, error) {
		return a.adapter.GetBySlug(ctx, slug)
	})
}

func (a *CachedClinicAdapter) getCached(ctx context.Context, cacheKey string, fetch func() (*entities.Clinic, error)) (*entities.Clinic, error) {
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var clinic entities.Clinic
		err = json.Unmarshal(cached, &clinic)
		if err == nil {
			return &clinic, nil
		}
		log.Warn().Str("cache_key", cacheKey).Err(err).Msg("failed to unmarshal cached clinic")
	}

	clinic, err := fetch()
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(clinic); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, clinicByIDTTL); err != nil {
				log.Warn().Str("cache_key", cacheKey).Err(err).Msg("failed to cache clinic")
			}
		}
	}()

	return clinic, nil
}

// FetchPage retrieves a listing page with caching
func (a *CachedClinicAdapter) FetchPage(ctx context.Context, filter repositories.ClinicQuery, pageSize int, cursor string) (*repositories.ClinicPage, error) {
	cacheKey := clinicPageCacheKey(filter, pageSize, cursor)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var page repositories.ClinicPage
		err = json.Unmarshal(cached, &page)
		if err == nil {
			return &page, nil
		}
		log.Warn().Str("cache_key", cacheKey).Err(err).Msg("failed to unmarshal cached clinic page")
	}

	page, err := a.adapter.FetchPage(ctx, filter, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(page); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, clinicPageTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache clinic page")
			}
		}
	}()

	return page, nil
}

// Create creates a clinic and invalidates listing caches
func (a *CachedClinicAdapter) Create(ctx context.Context, clinic *entities.Clinic) error {
	if err := a.adapter.Create(ctx, clinic); err != nil {
		return err
	}
	a.invalidatePages()
	return nil
}

// Update updates a clinic and invalidates its caches
func (a *CachedClinicAdapter) Update(ctx context.Context, clinic *entities.Clinic) error {
	if err := a.adapter.Update(ctx, clinic); err != nil {
		return err
	}
	a.invalidateClinic(clinic.ID, clinic.Slug)
	a.invalidatePages()
	return nil
}

// Delete deletes a clinic and invalidates its caches
func (a *CachedClinicAdapter) Delete(ctx context.Context, id string) error {
	clinic, getErr := a.adapter.GetByID(ctx, id)

	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}

	slug := ""
	if getErr == nil {
		slug = clinic.Slug
	}
	a.invalidateClinic(id, slug)
	a.invalidatePages()
	return nil
}

// IncrementClicks bumps the click counter and drops the stale cached entry
func (a *CachedClinicAdapter) IncrementClicks(ctx context.Context, id, searchTerm string) error {
	if err := a.adapter.IncrementClicks(ctx, id, searchTerm); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, clinicCacheKey(id)); err != nil {
			log.Warn().Str("clinic_id", id).Err(err).Msg("failed to invalidate clinic cache")
		}
	}()

	return nil
}

func (a *CachedClinicAdapter) invalidateClinic(id, slug string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, clinicCacheKey(id)); err != nil {
			log.Warn().Str("clinic_id", id).Err(err).Msg("failed to invalidate clinic cache")
		}
		if slug != "" {
			if err := a.cache.Delete(bgCtx, clinicSlugCacheKey(slug)); err != nil {
				log.Warn().Str("slug", slug).Err(err).Msg("failed to invalidate clinic slug cache")
			}
		}
	}()
}

func (a *CachedClinicAdapter) invalidatePages() {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, clinicPagePref+"*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate clinic page caches")
		}
	}()
}
