package geo

import "math"

// earthRadiusMiles is the single Earth radius constant applied everywhere.
const earthRadiusMiles = 3958.8

// SentinelMiles marks a candidate whose coordinates are missing or invalid.
// It is substituted by callers instead of invoking the formula, so such
// entries naturally sort last and always fail a radius cutoff.
const SentinelMiles = math.MaxFloat64

// Miles computes the great-circle distance between two points using the
// Haversine formula. It never fails: out-of-range inputs yield a numeric
// (possibly large) value rather than an error.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// ValidCoordinates reports whether a candidate's coordinates may take part in
// distance math. The zero pair is the storage sentinel for "unset", and NaN
// or out-of-range values are treated the same way.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
