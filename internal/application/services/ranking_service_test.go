package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/pkg/geo"
)

func rankedClinic(id, tier string, verified bool, clicks int64, dist float64) *entities.RankedClinic {
	return &entities.RankedClinic{
		Clinic: &entities.Clinic{
			ID:          id,
			Tier:        tier,
			Verified:    verified,
			TrafficMeta: entities.TrafficMeta{TotalClicks: clicks},
		},
		DistanceMiles: dist,
	}
}

func TestRankingService_Annotate(t *testing.T) {
	ranker := services.NewRankingService()

	t.Run("computes distance when origin and coordinates exist", func(t *testing.T) {
		austin := &providers.Coordinates{Latitude: 30.2672, Longitude: -97.7431}
		clinics := []*entities.Clinic{
			{ID: "houston", Location: entities.Location{Latitude: 29.7604, Longitude: -95.3698}},
		}

		ranked := ranker.Annotate(clinics, austin)

		require.Len(t, ranked, 1)
		// Austin to Houston is roughly 146 miles.
		assert.InDelta(t, 146, ranked[0].DistanceMiles, 5)
	})

	t.Run("substitutes sentinel when origin is nil", func(t *testing.T) {
		clinics := []*entities.Clinic{
			{ID: "c-1", Location: entities.Location{Latitude: 30.0, Longitude: -97.0}},
		}

		ranked := ranker.Annotate(clinics, nil)

		require.Len(t, ranked, 1)
		assert.Equal(t, geo.SentinelMiles, ranked[0].DistanceMiles)
	})

	t.Run("substitutes sentinel when clinic has no coordinates", func(t *testing.T) {
		origin := &providers.Coordinates{Latitude: 30.0, Longitude: -97.0}
		clinics := []*entities.Clinic{
			{ID: "no-coords"},
		}

		ranked := ranker.Annotate(clinics, origin)

		require.Len(t, ranked, 1)
		assert.Equal(t, geo.SentinelMiles, ranked[0].DistanceMiles)
	})
}

func TestRankingService_Rank(t *testing.T) {
	ranker := services.NewRankingService()

	ids := func(ranked []*entities.RankedClinic) []string {
		out := make([]string, len(ranked))
		for i, r := range ranked {
			out[i] = r.ID
		}
		return out
	}

	t.Run("tier precedence beats everything else", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("free", "free", true, 9999, 1),
			rankedClinic("standard", "standard", false, 0, 500),
			rankedClinic("advanced", "advanced", false, 0, 500),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"advanced", "standard", "free"}, ids(candidates))
	})

	t.Run("verified breaks tier ties", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("unverified", "standard", false, 0, 1),
			rankedClinic("verified", "standard", true, 0, 100),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"verified", "unverified"}, ids(candidates))
	})

	t.Run("distance ascending when a reference point exists", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("far", "free", false, 100, 80),
			rankedClinic("near", "free", false, 1, 5),
			rankedClinic("mid", "free", false, 50, 30),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"near", "mid", "far"}, ids(candidates))
	})

	t.Run("clicks descending without a reference point", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("quiet", "free", false, 3, geo.SentinelMiles),
			rankedClinic("popular", "free", false, 400, geo.SentinelMiles),
			rankedClinic("middling", "free", false, 40, geo.SentinelMiles),
		}

		ranker.Rank(candidates, false)

		assert.Equal(t, []string{"popular", "middling", "quiet"}, ids(candidates))
	})

	t.Run("sentinel distance sorts after any finite distance", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("no-coords", "free", false, 1000, geo.SentinelMiles),
			rankedClinic("located", "free", false, 0, 2500),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"located", "no-coords"}, ids(candidates))
	})

	t.Run("distance breaks ties within a tier", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("a", "advanced", false, 0, 5),
			rankedClinic("b", "standard", false, 0, 1),
			rankedClinic("c", "advanced", false, 0, 2),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"c", "a", "b"}, ids(candidates))
	})

	t.Run("full ties keep input order", func(t *testing.T) {
		candidates := []*entities.RankedClinic{
			rankedClinic("first", "standard", true, 10, 5),
			rankedClinic("second", "standard", true, 10, 5),
			rankedClinic("third", "standard", true, 10, 5),
		}

		ranker.Rank(candidates, true)

		assert.Equal(t, []string{"first", "second", "third"}, ids(candidates))
	})
}
