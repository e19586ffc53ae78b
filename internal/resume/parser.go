package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/nlp"
)

const (
	maxKeywords     = 50
	keywordMinRunes = 4

	chunkMinRunes = 3
	chunkMaxRunes = 29
)

var (
	fallbackWordRe = regexp.MustCompile(`\b[a-z]{4,}\b`)
	skillHints     = []string{"programming", "language", "framework", "tool"}
)

// Parser extracts candidate fields from resume text.
type Parser struct {
	model     *nlp.Model
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewParser creates a parser. A nil model switches skills and keywords to
// their pattern-only variants.
func NewParser(model *nlp.Model, extractor *extract.Extractor, l *zap.Logger) *Parser {
	l = logger.OrNop(l)
	if extractor == nil {
		extractor = extract.New(l)
	}
	return &Parser{model: model, extractor: extractor, logger: l}
}

// ParseFile extracts text from path and parses it. Only
// extract.ErrUnsupportedFormat is returned as an error.
func (p *Parser) ParseFile(path string) (*Candidate, error) {
	text, err := p.extractor.ExtractText(path)
	if err != nil {
		return nil, err
	}

	c := p.Parse(text)
	c.FilePath = path

	logger.WithCommonFields(p.logger, path, c.Name).Debug("resume parsed",
		zap.Int("skills", len(c.Skills)),
		zap.Int("keywords", len(c.Keywords)),
	)

	return c, nil
}

// Parse runs every field pass over text.
func (p *Parser) Parse(text string) *Candidate {
	return &Candidate{
		Name:       ExtractName(text),
		Email:      ExtractEmail(text),
		Phone:      ExtractPhone(text),
		Skills:     p.ExtractSkills(text),
		Experience: ExtractExperience(text),
		Education:  ExtractEducation(text),
		Keywords:   p.ExtractKeywords(text),
		RawText:    text,
	}
}

// ExtractSkills returns vocabulary skills found in text followed by noun
// phrases that look like skills, lowercased and without duplicates.
func (p *Parser) ExtractSkills(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, len(SkillsVocabulary))
	for _, skill := range SkillsVocabulary {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}

	for _, chunk := range p.model.NounChunks(text) {
		chunk = strings.ToLower(chunk)
		n := utf8.RuneCountInString(chunk)
		if n < chunkMinRunes || n > chunkMaxRunes {
			continue
		}
		if containsAny(chunk, skillHints) {
			found = append(found, chunk)
		}
	}

	return dedupe(found)
}

// ExtractKeywords returns up to 50 distinct lowercase keywords in order of
// first appearance.
func (p *Parser) ExtractKeywords(text string) []string {
	var words []string

	if p.model.Available() {
		for _, tok := range p.model.Tokens(text) {
			if !tok.IsNoun() || nlp.IsStopWord(tok.Text) {
				continue
			}
			if utf8.RuneCountInString(tok.Text) < keywordMinRunes {
				continue
			}
			words = append(words, strings.ToLower(tok.Text))
		}
	} else {
		words = fallbackWordRe.FindAllString(strings.ToLower(text), -1)
	}

	words = dedupe(words)
	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}

	return words
}
