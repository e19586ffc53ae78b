package scoring

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/resume-matcher/internal/nlp"
)

// ErrEmptyVocabulary is returned when no term survives tokenisation and
// stop-word removal in any document.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

const defaultMaxFeatures = 5000

var termRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer builds TF-IDF vectors over unigrams and bigrams.
// It is stateful and must not be shared between goroutines.
type Vectorizer struct {
	MaxFeatures int

	vocabulary map[string]int
	idf        []float64
}

func NewVectorizer() *Vectorizer {
	return &Vectorizer{MaxFeatures: defaultMaxFeatures}
}

// Vocabulary returns the fitted terms mapped to their column.
func (v *Vectorizer) Vocabulary() map[string]int {
	return v.vocabulary
}

// FitTransform learns the vocabulary and idf weights from docs and returns one
// L2-normalised row per document.
func (v *Vectorizer) FitTransform(docs []string) ([][]float64, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range analyze(doc) {
			counts[i][term]++
			total[term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	if len(total) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(terms))
		for term, c := range counts[i] {
			if col, ok := v.vocabulary[term]; ok {
				row[col] = float64(c) * v.idf[col]
			}
		}
		normalize(row)
		rows[i] = row
	}

	return rows, nil
}

// analyze lowercases text, drops stop words and returns unigrams followed by
// bigrams of the remaining tokens.
func analyze(text string) []string {
	var tokens []string
	for _, tok := range termRe.FindAllString(strings.ToLower(text), -1) {
		if nlp.IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}

	return terms
}

func normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

// Cosine returns the cosine similarity of two equally sized vectors.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
