package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
	"github.com/menshealthfinder/clinicfinder/pkg/geo"
)

func filterClinic(id string, dist float64) *entities.RankedClinic {
	return &entities.RankedClinic{
		Clinic: &entities.Clinic{
			ID:       id,
			Tier:     "standard",
			Verified: true,
			Address:  entities.Address{City: "Austin", State: "Texas"},
			Services: []string{"TRT", "Peptide Therapy"},
			IsActive: true,
		},
		DistanceMiles: dist,
	}
}

func TestFilters_Validate(t *testing.T) {
	t.Run("negative radius is rejected", func(t *testing.T) {
		f := services.Filters{RadiusMiles: -1}
		err := f.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("radius without a reference point is rejected", func(t *testing.T) {
		f := services.Filters{RadiusMiles: 25}
		err := f.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("radius with a reference point passes", func(t *testing.T) {
		f := services.Filters{
			RadiusMiles: 25,
			Origin:      &providers.Coordinates{Latitude: 30.0, Longitude: -97.0},
		}
		assert.NoError(t, f.Validate())
	})

	t.Run("empty filters pass", func(t *testing.T) {
		assert.NoError(t, services.Filters{}.Validate())
	})
}

func TestApplyFilters(t *testing.T) {
	t.Run("state and city compare exactly", func(t *testing.T) {
		candidates := []*entities.RankedClinic{filterClinic("austin", 5)}

		assert.Len(t, services.ApplyFilters(candidates, services.Filters{State: "Texas"}), 1)
		assert.Empty(t, services.ApplyFilters(candidates, services.Filters{State: "texas"}))
		assert.Len(t, services.ApplyFilters(candidates, services.Filters{City: "Austin"}), 1)
		assert.Empty(t, services.ApplyFilters(candidates, services.Filters{City: "Dallas"}))
	})

	t.Run("tier filter normalizes aliases before comparing", func(t *testing.T) {
		candidates := []*entities.RankedClinic{filterClinic("c-1", 5)}

		// "basic" is an alias of the standard tier.
		assert.Len(t, services.ApplyFilters(candidates, services.Filters{Tier: "basic"}), 1)
		assert.Empty(t, services.ApplyFilters(candidates, services.Filters{Tier: "premium"}))
	})

	t.Run("verified only excludes unverified listings", func(t *testing.T) {
		verified := filterClinic("verified", 5)
		unverified := filterClinic("unverified", 5)
		unverified.Verified = false

		out := services.ApplyFilters(
			[]*entities.RankedClinic{verified, unverified},
			services.Filters{VerifiedOnly: true},
		)

		require.Len(t, out, 1)
		assert.Equal(t, "verified", out[0].ID)
	})

	t.Run("services match on overlap, case-insensitively", func(t *testing.T) {
		candidates := []*entities.RankedClinic{filterClinic("c-1", 5)}

		out := services.ApplyFilters(candidates, services.Filters{
			Services: []string{"trt", "Something Else"},
		})
		assert.Len(t, out, 1)

		out = services.ApplyFilters(candidates, services.Filters{
			Services: []string{"Cryotherapy"},
		})
		assert.Empty(t, out)
	})

	t.Run("radius boundary is inclusive", func(t *testing.T) {
		origin := &providers.Coordinates{Latitude: 30.0, Longitude: -97.0}
		atBoundary := filterClinic("at-boundary", 25)
		justPast := filterClinic("just-past", 25.01)

		out := services.ApplyFilters(
			[]*entities.RankedClinic{atBoundary, justPast},
			services.Filters{RadiusMiles: 25, Origin: origin},
		)

		require.Len(t, out, 1)
		assert.Equal(t, "at-boundary", out[0].ID)
	})

	t.Run("sentinel distance never passes a radius filter", func(t *testing.T) {
		origin := &providers.Coordinates{Latitude: 30.0, Longitude: -97.0}
		noCoords := filterClinic("no-coords", geo.SentinelMiles)

		out := services.ApplyFilters(
			[]*entities.RankedClinic{noCoords},
			services.Filters{RadiusMiles: 100000, Origin: origin},
		)

		assert.Empty(t, out)
	})

	t.Run("filters are AND-combined", func(t *testing.T) {
		candidates := []*entities.RankedClinic{filterClinic("c-1", 5)}

		out := services.ApplyFilters(candidates, services.Filters{
			State:    "Texas",
			City:     "Dallas", // city fails, so the whole candidate fails
			Services: []string{"TRT"},
		})

		assert.Empty(t, out)
	})
}

func TestMatchesSearchTerm(t *testing.T) {
	clinic := &entities.Clinic{
		Name:            "Lone Star Men's Clinic",
		Address:         entities.Address{City: "Austin", State: "Texas"},
		Services:        []string{"TRT", "BPC-157"},
		SearchableTerms: []string{"lone star men's clinic", "austin", "texas", "trt", "bpc-157", "bpc157"},
	}

	t.Run("matches substrings in the name", func(t *testing.T) {
		assert.True(t, services.MatchesSearchTerm(clinic, "lone star"))
	})

	t.Run("matches services and locations", func(t *testing.T) {
		assert.True(t, services.MatchesSearchTerm(clinic, "trt"))
		assert.True(t, services.MatchesSearchTerm(clinic, "aust"))
		assert.True(t, services.MatchesSearchTerm(clinic, "Texas"))
	})

	t.Run("hyphen variants hit either spelling", func(t *testing.T) {
		assert.True(t, services.MatchesSearchTerm(clinic, "bpc157"))
		assert.True(t, services.MatchesSearchTerm(clinic, "bpc-157"))
	})

	t.Run("empty term matches everything", func(t *testing.T) {
		assert.True(t, services.MatchesSearchTerm(clinic, ""))
		assert.True(t, services.MatchesSearchTerm(clinic, "   "))
	})

	t.Run("unrelated term does not match", func(t *testing.T) {
		assert.False(t, services.MatchesSearchTerm(clinic, "cryotherapy"))
	})
}
