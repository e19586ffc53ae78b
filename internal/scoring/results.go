package scoring

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/spigell/resume-matcher/internal/resume"
)

// MatchResult is the score of one candidate against one job.
type MatchResult struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	FilePath    string            `json:"file_path"`
	MatchScore  float64           `json:"match_score"`
	SkillsMatch float64           `json:"skills_match"`
	Candidate   *resume.Candidate `json:"candidate_data"`
}

// Results is an ordered list of match results.
type Results struct {
	Items []*MatchResult `json:"results"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

// SortByScore orders results by MatchScore, highest first. Equal scores keep
// their relative order.
func (r *Results) SortByScore() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].MatchScore > r.Items[j].MatchScore
	})
}

// Names returns candidate names in result order.
func (r *Results) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		names = append(names, item.Name)
	}
	return names
}

// FindByPath returns the result for a resume path or nil.
func (r *Results) FindByPath(path string) *MatchResult {
	for _, item := range r.Items {
		if item.FilePath == path {
			return item
		}
	}
	return nil
}

// WriteJSON encodes the results as indented JSON.
func (r *Results) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
