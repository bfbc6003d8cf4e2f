package entities

// RankedClinic is a clinic annotated with its distance from the search
// origin. Listings without coordinates carry the sentinel distance.
type RankedClinic struct {
	*Clinic
	DistanceMiles float64 `json:"distance_miles"`
}

// SearchPage is the per-query result envelope consumed by infinite scroll.
// NextCursor is an opaque token minted by the store adapter; callers pass it
// back verbatim to fetch the following page.
type SearchPage struct {
	Clinics    []*RankedClinic `json:"clinics"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
	Origin     *Location       `json:"origin,omitempty"`
}
