package matching

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/job"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/nlp"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// Options controls how many candidates a match returns.
type Options struct {
	// TopN caps the result length. Zero or negative means no cap.
	TopN int
	// MinScore is a fraction in [0,1] compared against MatchScore/100.
	MinScore float64
	// LiteralJob treats the job description as text even when it names a file.
	LiteralJob bool
}

// Matcher ranks resumes against a job description.
type Matcher struct {
	parser   *resume.Parser
	analyzer *job.Analyzer
	scorer   *scoring.Scorer
	logger   *zap.Logger
}

// New wires the parsing and scoring pipeline. model may be nil.
func New(model *nlp.Model, l *zap.Logger) *Matcher {
	l = logger.OrNop(l)
	extractor := extract.New(l)
	parser := resume.NewParser(model, extractor, l)

	return &Matcher{
		parser:   parser,
		analyzer: job.NewAnalyzer(parser, extractor, l),
		scorer:   scoring.NewScorer(l),
		logger:   l,
	}
}

// ParseResume parses a single resume. Unsupported formats are returned as
// extract.ErrUnsupportedFormat.
func (m *Matcher) ParseResume(path string) (*resume.Candidate, error) {
	return m.parser.ParseFile(path)
}

// AnalyzeJob exposes the job analysis step on its own.
func (m *Matcher) AnalyzeJob(descriptionOrPath string) (*job.Requirements, error) {
	return m.analyzer.Analyze(descriptionOrPath)
}

// AnalyzeJobText analyzes a job description without ever reading it as a path.
func (m *Matcher) AnalyzeJobText(text string) *job.Requirements {
	return m.analyzer.AnalyzeText(text)
}

// Match scores every resume against the job and returns the ranked results.
// Resumes that cannot be parsed are logged and skipped. The returned error is
// either a context error or a job file that exists but could not be read.
func (m *Matcher) Match(ctx context.Context, jobDescription string, resumePaths []string, opts Options) (*scoring.Results, error) {
	req, err := m.requirements(jobDescription, opts.LiteralJob)
	if err != nil {
		return nil, fmt.Errorf("analyze job: %w", err)
	}

	candidates := make([]*resume.Candidate, 0, len(resumePaths))
	for _, path := range resumePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := m.parseOne(path)
		if err != nil {
			logger.WithCommonFields(m.logger, path, "").Warn("skipping resume", zap.Error(err))
			continue
		}
		candidates = append(candidates, c)
	}

	results := &scoring.Results{Items: make([]*scoring.MatchResult, 0, len(candidates))}
	if len(candidates) == 0 {
		return results, nil
	}

	for _, c := range candidates {
		results.Items = append(results.Items, m.scorer.Result(req, c))
	}
	results.SortByScore()

	steps := filtering.Default()
	if opts.TopN <= 0 {
		filtering.DisableByName(steps, filtering.TopNName, "no limit requested")
	}

	cfg := &filtering.Config{MinScore: opts.MinScore, TopN: opts.TopN}
	results, err = filtering.Run(ctx, cfg, filtering.Deps{Logger: m.logger}, steps, results)
	if err != nil {
		return nil, fmt.Errorf("filter results: %w", err)
	}

	for _, st := range filtering.Describe(steps) {
		m.logger.Debug("filter status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}

	m.logger.Info("resumes matched",
		zap.Int("requested", len(resumePaths)),
		zap.Int("parsed", len(candidates)),
		zap.Int("returned", results.Len()),
		zap.Strings("candidates", results.Names()),
	)

	return results, nil
}

func (m *Matcher) requirements(jobDescription string, literal bool) (*job.Requirements, error) {
	if literal {
		return m.analyzer.AnalyzeText(jobDescription), nil
	}
	return m.analyzer.Analyze(jobDescription)
}

// parseOne turns any failure for a single resume, including a panic, into an error.
func (m *Matcher) parseOne(path string) (c *resume.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse panic: %v", r)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	return m.parser.ParseFile(path)
}
