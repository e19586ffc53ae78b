package scoring

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/job"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/resume"
)

const (
	skillsWeight     = 0.4
	experienceWeight = 0.3
	lexicalWeight    = 0.3

	// experienceScore is fixed; candidate tenure is not compared with
	// Requirements.ExperienceRequired.
	experienceScore = 1.0
)

// Scorer computes match scores. It keeps no state between calls.
type Scorer struct {
	logger *zap.Logger
}

func NewScorer(l *zap.Logger) *Scorer {
	return &Scorer{logger: logger.OrNop(l)}
}

// Score returns the match score as a percentage rounded to two decimals and
// the skills match fraction.
func (s *Scorer) Score(req *job.Requirements, c *resume.Candidate) (matchScore, skillsMatch float64) {
	lexical := s.Similarity(req, c)
	skillsMatch = SkillsMatch(req.RequiredSkills, c.Skills)

	final := skillsMatch*skillsWeight + experienceScore*experienceWeight + lexical*lexicalWeight
	final = math.Min(final, 1.0)

	return round2(final * 100), skillsMatch
}

// Result scores c and wraps it into a MatchResult.
func (s *Scorer) Result(req *job.Requirements, c *resume.Candidate) *MatchResult {
	score, skills := s.Score(req, c)

	logger.WithCommonFields(s.logger, c.FilePath, c.Name).Debug("candidate scored",
		zap.Float64("match_score", score),
		zap.Float64("skills_match", skills),
	)

	return &MatchResult{
		Name:        c.Name,
		Email:       c.Email,
		FilePath:    c.FilePath,
		MatchScore:  score,
		SkillsMatch: skills,
		Candidate:   c,
	}
}

// Similarity is the TF-IDF cosine of the job and resume texts. When the texts
// share no usable terms it falls back to keyword overlap.
func (s *Scorer) Similarity(req *job.Requirements, c *resume.Candidate) float64 {
	rows, err := NewVectorizer().FitTransform([]string{req.RawText, c.RawText})
	if err != nil {
		if !errors.Is(err, ErrEmptyVocabulary) {
			s.logger.Warn("vectorization failed", zap.Error(err))
		}
		return KeywordOverlap(req.Keywords, c.Keywords)
	}

	return Cosine(rows[0], rows[1])
}

// SkillsMatch is the fraction of required skills present among the
// candidate's skills, compared case-insensitively.
func SkillsMatch(required, candidate []string) float64 {
	if len(required) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(candidate))
	for _, skill := range candidate {
		have[strings.ToLower(skill)] = struct{}{}
	}

	matched := 0
	for _, skill := range required {
		if _, ok := have[strings.ToLower(skill)]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(required))
}

// KeywordOverlap is the Jaccard index of two keyword sets.
func KeywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, k := range a {
		setA[k] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, k := range b {
		setB[k] = struct{}{}
	}

	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter

	return float64(inter) / float64(union)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
