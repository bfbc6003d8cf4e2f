package services

import (
	"strings"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/pkg/geo"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

// Filters enumerates every supported search filter key. All keys are
// optional and AND-combined; unknown keys are rejected at the HTTP boundary
// before a Filters value is ever built.
type Filters struct {
	State        string
	City         string
	Services     []string
	Tier         string
	VerifiedOnly bool
	RadiusMiles  float64
	Origin       *providers.Coordinates
	SearchTerm   string
}

// Validate rejects filter combinations the engine cannot evaluate.
func (f Filters) Validate() error {
	if f.RadiusMiles < 0 {
		return apperrors.NewValidationError("radius must not be negative")
	}
	if f.RadiusMiles > 0 && f.Origin == nil {
		return apperrors.NewValidationError("radius filter requires a reference point")
	}
	return nil
}

// ApplyFilters applies every client-side filter to the annotated candidates.
// The individual checks commute, so order is free to change for performance
// without affecting the result set.
func ApplyFilters(candidates []*entities.RankedClinic, f Filters) []*entities.RankedClinic {
	out := make([]*entities.RankedClinic, 0, len(candidates))
	for _, c := range candidates {
		if matchesFilters(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func matchesFilters(c *entities.RankedClinic, f Filters) bool {
	// State and city compare exactly as stored, matching the semantics of
	// the store-side equality filters they stand in for.
	if f.State != "" && c.Address.State != f.State {
		return false
	}
	if f.City != "" && c.Address.City != f.City {
		return false
	}
	if f.Tier != "" && utils.NormalizeTier(f.Tier) != c.Tier {
		return false
	}
	if f.VerifiedOnly && !c.Verified {
		return false
	}
	if len(f.Services) > 0 && !servicesOverlap(c.Services, f.Services) {
		return false
	}
	if f.RadiusMiles > 0 {
		// Candidates carrying the sentinel are excluded outright, not merely
		// sorted last: no finite radius can include them.
		if c.DistanceMiles == geo.SentinelMiles || c.DistanceMiles > f.RadiusMiles {
			return false
		}
	}
	if f.SearchTerm != "" && !MatchesSearchTerm(c.Clinic, f.SearchTerm) {
		return false
	}
	return true
}

// servicesOverlap reports whether the candidate offers at least one of the
// requested services (OR within the key).
func servicesOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// MatchesSearchTerm reports whether any variant of the term appears in any
// of the candidate's search surfaces. Substring containment is deliberate:
// it trades precision for recall so treatment nicknames and partial city
// names still hit, and that trade-off is part of the contract.
func MatchesSearchTerm(c *entities.Clinic, term string) bool {
	variants := utils.NormalizeSearchTerm(term)
	if len(variants) == 0 {
		return true
	}

	surfaces := make([]string, 0, len(c.SearchableTerms)+len(c.Services)+3)
	surfaces = append(surfaces, c.SearchableTerms...)
	surfaces = append(surfaces, c.Name)
	surfaces = append(surfaces, c.Services...)
	surfaces = append(surfaces, c.Address.City, c.Address.State)

	for _, surface := range surfaces {
		lower := strings.ToLower(surface)
		for _, v := range variants {
			if strings.Contains(lower, v) {
				return true
			}
		}
	}
	return false
}
