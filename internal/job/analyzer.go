package job

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/utils"
)

// Requirements is what a job description asks of a candidate.
type Requirements struct {
	RawText            string   `json:"raw_text"`
	RequiredSkills     []string `json:"required_skills"`
	Keywords           []string `json:"keywords"`
	ExperienceRequired int      `json:"experience_required"`
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`experience.*?(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)\+?\s*years?.*?experience`),
}

// Analyzer derives Requirements from a job description.
type Analyzer struct {
	parser    *resume.Parser
	extractor *extract.Extractor
	logger    *zap.Logger
}

func NewAnalyzer(parser *resume.Parser, extractor *extract.Extractor, l *zap.Logger) *Analyzer {
	l = logger.OrNop(l)
	if extractor == nil {
		extractor = extract.New(l)
	}
	if parser == nil {
		parser = resume.NewParser(nil, extractor, l)
	}
	return &Analyzer{parser: parser, extractor: extractor, logger: l}
}

// Analyze accepts either the description itself or a path to a file holding it.
// An error is returned only when the path exists but cannot be read.
func (a *Analyzer) Analyze(descriptionOrPath string) (*Requirements, error) {
	text, err := a.load(descriptionOrPath)
	if err != nil {
		return nil, err
	}

	return a.AnalyzeText(text), nil
}

// AnalyzeText analyzes text as a description without looking at the filesystem.
func (a *Analyzer) AnalyzeText(text string) *Requirements {
	req := &Requirements{
		RawText:            text,
		RequiredSkills:     a.parser.ExtractSkills(text),
		Keywords:           a.parser.ExtractKeywords(text),
		ExperienceRequired: ExtractExperienceYears(text),
	}

	a.logger.Debug("job analyzed",
		zap.String("description", utils.TruncateForLog(text, 80)),
		zap.Strings("required_skills", req.RequiredSkills),
		zap.Int("experience_required", req.ExperienceRequired),
	)

	return req
}

func (a *Analyzer) load(descriptionOrPath string) (string, error) {
	path := strings.TrimSpace(descriptionOrPath)
	if path == "" || strings.ContainsRune(path, '\n') {
		return descriptionOrPath, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return descriptionOrPath, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return extract.CleanHTML(string(data)), nil
	case ".pdf", ".docx", ".doc":
		text, err := a.extractor.ExtractText(path)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return text, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return strings.ToValidUTF8(string(data), "�"), nil
	}
}

// ExtractExperienceYears returns the first number of years mentioned next
// to "experience", or 0. Numbers too large for an int are clamped to math.MaxInt.
func ExtractExperienceYears(text string) int {
	lower := strings.ToLower(text)

	for _, re := range yearsPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			// The capture is all digits, so the only failure is overflow.
			return math.MaxInt
		}
		return years
	}

	return 0
}
