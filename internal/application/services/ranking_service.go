package services

import (
	"sort"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/pkg/geo"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

// RankingService orders annotated candidates by the canonical precedence.
//
// The canonical sort order, applied by every result path:
//  1. tier priority (advanced, then standard, then free)
//  2. verified before unverified
//  3. distance ascending when a reference point exists, otherwise total
//     clicks descending
//
// remaining ties keep input order (the sort is stable).
type RankingService struct{}

// NewRankingService creates a new ranking service
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Annotate attaches the distance from the origin to each candidate. When no
// origin is given, or a candidate has no usable coordinates, the sentinel
// distance is substituted instead of calling the formula.
func (s *RankingService) Annotate(clinics []*entities.Clinic, origin *providers.Coordinates) []*entities.RankedClinic {
	ranked := make([]*entities.RankedClinic, len(clinics))
	for i, c := range clinics {
		dist := geo.SentinelMiles
		if origin != nil && c.HasCoordinates() {
			dist = geo.Miles(origin.Latitude, origin.Longitude, c.Location.Latitude, c.Location.Longitude)
		}
		ranked[i] = &entities.RankedClinic{Clinic: c, DistanceMiles: dist}
	}
	return ranked
}

// Rank sorts the candidates in place by the canonical precedence.
func (s *RankingService) Rank(candidates []*entities.RankedClinic, hasOrigin bool) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if ra, rb := utils.TierRank(a.Tier), utils.TierRank(b.Tier); ra != rb {
			return ra < rb
		}
		if a.Verified != b.Verified {
			return a.Verified
		}
		if hasOrigin {
			return a.DistanceMiles < b.DistanceMiles
		}
		return a.TrafficMeta.TotalClicks > b.TrafficMeta.TotalClicks
	})
}
