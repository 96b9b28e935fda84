package services

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/roamly/experiences-backend/internal/database"
)

// matchThreshold is the minimum similarity score for a fuzzy match
const matchThreshold = 60

// SearchService implements experience search with typo tolerance
type SearchService struct {
	experiences *database.ExperienceRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(experiences *database.ExperienceRepository) *SearchService {
	return &SearchService{experiences: experiences}
}

// SearchResult is one fuzzy match with its similarity score
type SearchResult struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Location *string  `json:"location"`
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"image_url"`
	Score    int      `json:"score"`
}

// SearchResponse carries both the fuzzy matches and the plain substring
// suggestions of a query
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	Suggestions []string       `json:"suggestions"`
}

// Search matches the query against experience titles. Suggestions are the
// first five titles containing the query as a substring, sorted
// alphabetically. Results are fuzzy matches at or above the threshold,
// sorted by score descending.
func (s *SearchService) Search(query string) (*SearchResponse, error) {
	resp := &SearchResponse{
		Results:     []SearchResult{},
		Suggestions: []string{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return resp, nil
	}

	experiences, err := s.experiences.List()
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	matchedIDs := []int64{}
	for _, exp := range experiences {
		if strings.Contains(strings.ToLower(exp.Title), lowered) {
			resp.Suggestions = append(resp.Suggestions, exp.Title)
		}

		score := similarity(lowered, strings.ToLower(exp.Title))
		if score >= matchThreshold {
			resp.Results = append(resp.Results, SearchResult{
				ID:       exp.ID,
				Title:    exp.Title,
				Location: exp.Location,
				Price:    exp.Price,
				Score:    score,
			})
			matchedIDs = append(matchedIDs, exp.ID)
		}
	}

	sort.Strings(resp.Suggestions)
	if len(resp.Suggestions) > 5 {
		resp.Suggestions = resp.Suggestions[:5]
	}

	sort.SliceStable(resp.Results, func(i, j int) bool {
		return resp.Results[i].Score > resp.Results[j].Score
	})

	imageURLs, err := s.experiences.FirstImageURLs(matchedIDs)
	if err != nil {
		return nil, err
	}
	for i := range resp.Results {
		if url, ok := imageURLs[resp.Results[i].ID]; ok {
			u := url
			resp.Results[i].ImageURL = &u
		}
	}

	return resp, nil
}

// similarity scores how closely query matches title on a 0..100 scale. A
// substring match scores 100; otherwise the query is compared against each
// word of the title and the whole title, taking the best edit-distance
// ratio. Non-matches score 0.
func similarity(query, title string) int {
	if strings.Contains(title, query) {
		return 100
	}

	best := 0
	candidates := append(strings.Fields(title), title)
	for _, candidate := range candidates {
		denom := len(query)
		if len(candidate) > denom {
			denom = len(candidate)
		}
		if denom == 0 {
			continue
		}

		score := 100 - (fuzzy.LevenshteinDistance(query, candidate)*100)/denom
		if score > best {
			best = score
		}
	}
	return best
}
