package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	MinScoreName = "min_score"
	TopNName     = "top_n"
)

type minScoreFilter struct {
	disabled bool
	reason   string
	minScore float64
}

// NewMinScore creates a filter that drops results scoring below the configured fraction.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return MinScoreName }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.minScore = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return fmt.Errorf("minimum score must be within [0, 1], got %v", cfg.MinScore)
	}
	f.minScore = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, r *scoring.Results) (*scoring.Results, Step, error) {
	initial := r.Len()
	threshold := f.minScore * 100

	kept := make([]*scoring.MatchResult, 0, initial)
	var dropped []string
	for _, item := range r.Items {
		if item.MatchScore < threshold {
			dropped = append(dropped, item.FilePath)
			continue
		}
		kept = append(kept, item)
	}
	r.Items = kept

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("dropping candidates below minimum score",
			zap.Float64("threshold", threshold),
			zap.Strings("dropped_resumes", dropped),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	details := map[string]string{
		"threshold_percent": strconv.FormatFloat(f.minScore*100, 'f', 2, 64),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type topNFilter struct {
	disabled bool
	reason   string
	limit    int
}

// NewTopN creates a filter that keeps only the first N results.
func NewTopN() Filter {
	return &topNFilter{}
}

func (f *topNFilter) Name() string { return TopNName }

func (f *topNFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *topNFilter) IsEnabled() bool { return !f.disabled }

func (f *topNFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg != nil {
		f.limit = cfg.TopN
	}
	return nil
}

func (f *topNFilter) Apply(_ context.Context, _ Deps, r *scoring.Results) (*scoring.Results, Step, error) {
	initial := r.Len()
	if f.limit > 0 && initial > f.limit {
		r.Items = r.Items[:f.limit]
	}

	return r, Step{Initial: initial, Dropped: initial - r.Len(), Left: r.Len()}, nil
}

func (f *topNFilter) Status() Status {
	limit := "unlimited"
	if f.limit > 0 {
		limit = strconv.Itoa(f.limit)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"limit": limit}}
}
