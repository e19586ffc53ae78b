package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Token is a single tagged word. Tag holds a Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// IsNoun reports whether the token is a common or proper noun.
func (t Token) IsNoun() bool {
	switch t.Tag {
	case "NN", "NNS", "NNP", "NNPS":
		return true
	}
	return false
}

// Model is the part-of-speech tagger shared by the resume and job parsers.
// A nil *Model is valid and behaves as an unavailable model.
type Model struct {
	tagger *prose.Model
}

// Load prepares the tagger and runs it once on a sample sentence so that a
// broken model is reported at startup instead of on the first resume.
func Load() (*Model, error) {
	m := &Model{}

	doc, err := m.document("Go developer with Python experience.")
	if err != nil {
		return nil, fmt.Errorf("load pos tagger: %w", err)
	}
	m.tagger = doc.Model

	return m, nil
}

// document tags text with the loaded tagger. Before Load has stored one,
// prose builds its embedded model.
func (m *Model) document(text string) (*prose.Document, error) {
	opts := []prose.DocOpt{
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	}
	if m.tagger != nil {
		opts = append(opts, prose.UsingModel(m.tagger))
	}
	return prose.NewDocument(text, opts...)
}

// Available reports whether linguistic analysis can be used.
func (m *Model) Available() bool {
	return m != nil
}

// Tokens tags text. Tagging failures yield no tokens.
func (m *Model) Tokens(text string) []Token {
	if m == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := m.document(text)
	if err != nil {
		return nil
	}

	raw := doc.Tokens()
	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}

	return tokens
}

// NounChunks returns base noun phrases: maximal runs of determiners,
// possessives, adjectives, gerunds and nouns that end on a noun.
func (m *Model) NounChunks(text string) []string {
	return chunks(m.Tokens(text))
}

func chunks(tokens []Token) []string {
	var (
		result []string
		run    []Token
	)

	flush := func() {
		last := -1
		for i, tok := range run {
			if tok.IsNoun() {
				last = i
			}
		}
		if last >= 0 {
			words := make([]string, 0, last+1)
			for _, tok := range run[:last+1] {
				words = append(words, tok.Text)
			}
			result = append(result, strings.Join(words, " "))
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		if inChunk(tok) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()

	return result
}

func inChunk(t Token) bool {
	if t.IsNoun() {
		return true
	}
	switch t.Tag {
	case "DT", "PRP$", "JJ", "JJR", "JJS", "VBG", "CD":
		return true
	}
	return false
}
