package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	experienceLimit        = 300
	educationLimit         = 200
	profileExperienceLimit = 500
	profileKeywords        = 20
	previewLimit           = 100

	StrongBand   = "strong"
	ModerateBand = "moderate"
	WeakBand     = "weak"
)

// Entry is a display-ready view of one match result.
type Entry struct {
	Rank        int      `json:"rank"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	MatchScore  float64  `json:"match_score"`
	SkillsMatch float64  `json:"skills_match"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	Education   string   `json:"education"`
	FileName    string   `json:"filename"`
}

// Profile is the single-resume view returned by the parse endpoint and command.
type Profile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
	Keywords   []string `json:"keywords"`
}

// FromResults converts ranked results into entries numbered from 1.
func FromResults(r *scoring.Results) []Entry {
	if r == nil {
		return nil
	}

	entries := make([]Entry, 0, r.Len())
	for i, item := range r.Items {
		e := Entry{
			Rank:        i + 1,
			Name:        item.Name,
			Email:       item.Email,
			MatchScore:  item.MatchScore,
			SkillsMatch: math.Round(item.SkillsMatch*1000) / 10,
			FileName:    filepath.Base(item.FilePath),
		}
		if c := item.Candidate; c != nil {
			e.Phone = c.Phone
			e.Skills = c.Skills
			e.Experience = utils.TruncateRunes(c.Experience, experienceLimit)
			e.Education = utils.TruncateRunes(c.Education, educationLimit)
		}
		entries = append(entries, e)
	}

	return entries
}

// NewProfile builds the single-resume view of a candidate.
func NewProfile(c *resume.Candidate) Profile {
	keywords := c.Keywords
	if len(keywords) > profileKeywords {
		keywords = keywords[:profileKeywords]
	}

	return Profile{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Skills:     c.Skills,
		Experience: utils.TruncateRunes(c.Experience, profileExperienceLimit),
		Education:  c.Education,
		Keywords:   keywords,
	}
}

// Header is the first row written by WriteCSV.
var Header = []string{
	"Rank", "Name", "Email", "Match Score (%)", "Skills Match (%)",
	"Skills Count", "Skills", "Experience Preview", "Education Preview",
}

// WriteCSV writes entries as CSV with previews shortened to 100 runes.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Rank),
			e.Name,
			e.Email,
			formatScore(e.MatchScore),
			formatScore(e.SkillsMatch),
			strconv.Itoa(len(e.Skills)),
			strings.Join(e.Skills, ", "),
			preview(e.Experience),
			preview(e.Education),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.Rank, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatScore prints whole numbers with one decimal so that columns read as
// percentages ("100.0", "62.5").
func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func preview(s string) string {
	return utils.TruncateRunes(s, previewLimit)
}

// Band classifies a match score percentage.
func Band(score float64) string {
	switch {
	case score >= 75:
		return StrongBand
	case score >= 50:
		return ModerateBand
	default:
		return WeakBand
	}
}

// ByScoreBand groups entries by Band, keeping their order inside each band.
func ByScoreBand(entries []Entry) map[string][]Entry {
	report := make(map[string][]Entry)
	for _, e := range entries {
		band := Band(e.MatchScore)
		report[band] = append(report[band], e)
	}
	return report
}
