package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
)

// minSuggestQueryLen is the minimum partial-query length; anything shorter
// returns all-empty lists.
const minSuggestQueryLen = 2

const defaultSuggestionLimit = 5

// suggestionScanSize bounds how many active listings back the type-ahead
// index per request.
const suggestionScanSize = 200

// DefaultServiceVocabulary is the fixed treatment-category list service
// suggestions are drawn from. Suggestions never invent services from the
// query itself.
var DefaultServiceVocabulary = []string{
	"TRT",
	"Testosterone Replacement Therapy",
	"ED Treatment",
	"Peptide Therapy",
	"BPC-157",
	"Hair Loss Treatment",
	"Weight Loss",
	"HGH Therapy",
	"Hormone Optimization",
	"IV Therapy",
	"PRP Therapy",
	"Sexual Health",
	"Sermorelin",
	"Enclomiphene",
}

// SuggestionService produces the three capped type-ahead candidate lists.
type SuggestionService struct {
	repo       repositories.ClinicRepository
	vocabulary []string
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(repo repositories.ClinicRepository) *SuggestionService {
	return &SuggestionService{
		repo:       repo,
		vocabulary: DefaultServiceVocabulary,
	}
}

// Suggest returns clinic, service and location candidates for a partial
// query. Each list is capped at maxResults independently.
func (s *SuggestionService) Suggest(ctx context.Context, partial string, maxResults int) (*entities.Suggestions, error) {
	result := &entities.Suggestions{
		Clinics:   []entities.ClinicSuggestion{},
		Services:  []string{},
		Locations: []string{},
	}

	query := strings.ToLower(strings.TrimSpace(partial))
	if len(query) < minSuggestQueryLen {
		return result, nil
	}
	if maxResults <= 0 {
		maxResults = defaultSuggestionLimit
	}

	page, err := s.repo.FetchPage(ctx, repositories.ClinicQuery{ActiveOnly: true}, suggestionScanSize, "")
	if err != nil {
		return nil, err
	}

	result.Services = s.matchServices(query, maxResults)

	seenLocations := make(map[string]bool)
	for _, c := range page.Clinics {
		if len(result.Clinics) < maxResults && strings.Contains(strings.ToLower(c.Name), query) {
			result.Clinics = append(result.Clinics, entities.ClinicSuggestion{
				ID:    c.ID,
				Slug:  c.Slug,
				Name:  c.Name,
				City:  c.Address.City,
				State: c.Address.State,
			})
		}

		if len(result.Locations) < maxResults {
			cityMatch := strings.Contains(strings.ToLower(c.Address.City), query)
			stateMatch := strings.Contains(strings.ToLower(c.Address.State), query)
			if cityMatch || stateMatch {
				key := fmt.Sprintf("%s, %s", c.Address.City, c.Address.State)
				if !seenLocations[key] {
					seenLocations[key] = true
					result.Locations = append(result.Locations, key)
				}
			}
		}
	}

	return result, nil
}

// matchServices filters the fixed vocabulary by substring and ranks
// starts-with matches before contains matches, shorter entries first.
func (s *SuggestionService) matchServices(query string, maxResults int) []string {
	var matches []string
	for _, svc := range s.vocabulary {
		if strings.Contains(strings.ToLower(svc), query) {
			matches = append(matches, svc)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(matches[i]), query)
		pj := strings.HasPrefix(strings.ToLower(matches[j]), query)
		if pi != pj {
			return pi
		}
		return len(matches[i]) < len(matches[j])
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	if matches == nil {
		matches = []string{}
	}
	return matches
}
