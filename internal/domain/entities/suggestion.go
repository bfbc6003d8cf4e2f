package entities

// ClinicSuggestion is a single type-ahead clinic candidate.
type ClinicSuggestion struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Suggestions groups the three independently-capped type-ahead lists.
type Suggestions struct {
	Clinics   []ClinicSuggestion `json:"clinics"`
	Services  []string           `json:"services"`
	Locations []string           `json:"locations"`
}
