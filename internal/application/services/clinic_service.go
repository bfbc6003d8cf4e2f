package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

// ClinicService handles business logic for clinic listings
type ClinicService struct {
	repo       repositories.ClinicRepository
	searchRepo repositories.ClinicSearchRepository
}

// NewClinicService creates a new clinic service
func NewClinicService(repo repositories.ClinicRepository, searchRepo repositories.ClinicSearchRepository) *ClinicService {
	return &ClinicService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create stores a new listing and indexes it. Derived fields (slug, canonical
// tier, searchable terms) are always recomputed here, never taken from input.
func (s *ClinicService) Create(ctx context.Context, clinic *entities.Clinic) error {
	if clinic.ID == "" {
		clinic.ID = uuid.New().String()
	}
	now := time.Now()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now
	s.deriveFields(clinic)

	if err := s.repo.Create(ctx, clinic); err != nil {
		return err
	}

	if s.searchRepo != nil {
		// Eventual consistency: the DB write already succeeded.
		if err := s.searchRepo.Index(ctx, clinic); err != nil {
			log.Warn().Err(err).Str("clinic_id", clinic.ID).Msg("failed to index clinic")
		}
	}

	return nil
}

// Update updates a listing and refreshes its index document.
func (s *ClinicService) Update(ctx context.Context, clinic *entities.Clinic) error {
	clinic.UpdatedAt = time.Now()
	s.deriveFields(clinic)

	if err := s.repo.Update(ctx, clinic); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, clinic); err != nil {
			log.Warn().Err(err).Str("clinic_id", clinic.ID).Msg("failed to update clinic index")
		}
	}

	return nil
}

// Delete deactivates a listing and removes it from the index.
func (s *ClinicService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("clinic_id", id).Msg("failed to delete clinic from index")
		}
	}

	return nil
}

// GetByID retrieves a clinic by ID
func (s *ClinicService) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a clinic by its URL slug
func (s *ClinicService) GetBySlug(ctx context.Context, slug string) (*entities.Clinic, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// RecordClick bumps the listing's click counter and remembers the search
// term that led the visitor there. The increment is a single transactional
// read-modify-write delegated to the store.
func (s *ClinicService) RecordClick(ctx context.Context, id, searchTerm string) error {
	return s.repo.IncrementClicks(ctx, id, searchTerm)
}

func (s *ClinicService) deriveFields(clinic *entities.Clinic) {
	clinic.Tier = utils.NormalizeTier(clinic.Tier)
	clinic.Slug = utils.Slugify(clinic.Name, clinic.Address.City, clinic.Address.State)
	clinic.SearchableTerms = utils.DeriveSearchableTerms(
		clinic.Name,
		clinic.Address.City,
		clinic.Address.State,
		clinic.Services,
		clinic.Tags,
	)
}
