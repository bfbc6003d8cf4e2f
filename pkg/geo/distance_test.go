package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiles_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{40.7128, -74.0060},
		{34.0522, -118.2437},
		{-33.8688, 151.2093},
	}
	for _, p := range points {
		assert.Zero(t, Miles(p[0], p[1], p[0], p[1]))
	}
}

func TestMiles_Symmetric(t *testing.T) {
	d1 := Miles(40.7128, -74.0060, 34.0522, -118.2437)
	d2 := Miles(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InEpsilon(t, d1, d2, 1e-6)
}

func TestMiles_KnownDistance(t *testing.T) {
	// New York to Los Angeles is roughly 2,445 miles great-circle.
	d := Miles(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InDelta(t, 2445, d, 15)
}

func TestMiles_OutOfRangeInputsStayNumeric(t *testing.T) {
	d := Miles(540, -900, -300, 720)
	assert.False(t, math.IsNaN(d))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(40.7128, -74.0060))
	assert.False(t, ValidCoordinates(0, 0))
	assert.False(t, ValidCoordinates(math.NaN(), -74))
	assert.False(t, ValidCoordinates(40, math.NaN()))
	assert.False(t, ValidCoordinates(91, 10))
	assert.False(t, ValidCoordinates(45, 181))
}

func TestSentinelSortsLast(t *testing.T) {
	assert.Greater(t, SentinelMiles, Miles(0, 0, 90, 180))
}
