package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/nlp"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567

Summary
Backend engineer who likes Python and Docker.

Work Experience
Acme Corp, 2019-2024
Built REST API services with Django and PostgreSQL.

Education
BSc Computer Science
State University`

func TestExtractName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect string
	}{
		{name: "empty text", text: "", expect: UnknownName},
		{name: "first line", text: "Jane Doe\nEngineer", expect: "Jane Doe"},
		{name: "skips blank and short lines", text: "\n  \nJo\n  John Smith  \n", expect: "John Smith"},
		{name: "skips overly long lines", text: strings.Repeat("x", 50) + "\nAnna Lee", expect: "Anna Lee"},
		{name: "accepts 49 runes", text: strings.Repeat("й", 49), expect: strings.Repeat("й", 49)},
		{name: "only first five lines", text: "a\nb\nc\nd\ne\nFar Away Name", expect: UnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, ExtractName(tt.text))
		})
	}
}

func TestExtractEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jane.doe+test@example.co.uk", ExtractEmail("contact: jane.doe+test@example.co.uk"))
	assert.Equal(t, "a@b.io", ExtractEmail("first a@b.io then c@d.io"))
	assert.Empty(t, ExtractEmail("no address here"))
	assert.Empty(t, ExtractEmail(""))
}

func TestExtractPhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(555) 123-4567", ExtractPhone("call (555) 123-4567 now"))
	assert.Equal(t, "+1234567890", ExtractPhone("tel +1234567890"))
	assert.Equal(t, "555.123.4567", ExtractPhone("555.123.4567"))
	assert.Empty(t, ExtractPhone("no digits"))
}

func TestExtractExperience(t *testing.T) {
	t.Parallel()

	t.Run("section from marker", func(t *testing.T) {
		t.Parallel()
		text := "Jane\nSummary\nWork Experience\nAcme 2019\n"
		assert.Equal(t, "Work Experience\nAcme 2019\n", ExtractExperience(text))
	})

	t.Run("keeps fifteen lines", func(t *testing.T) {
		t.Parallel()
		lines := []string{"Employment"}
		for i := range 30 {
			lines = append(lines, fmt.Sprintf("line %d", i))
		}
		got := strings.Split(ExtractExperience(strings.Join(lines, "\n")), "\n")
		require.Len(t, got, 15)
		assert.Equal(t, "Employment", got[0])
		assert.Equal(t, "line 13", got[14])
	})

	t.Run("falls back to leading text", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("ж", 600)
		assert.Equal(t, strings.Repeat("ж", 500), ExtractExperience(text))
		assert.Equal(t, "short", ExtractExperience("short"))
	})
}

func TestExtractEducation(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Jane Doe",
		"Skills: Go",
		"Contact",
		"Education",
		"BSc Computer Science",
		"State University",
		"2010",
		"Hobbies",
		"Chess",
	}, "\n")

	expect := strings.Join([]string{
		"Skills: Go",
		"Contact",
		"Education",
		"BSc Computer Science",
		"State University",
		"2010",
		"Hobbies",
		"Education",
		"BSc Computer Science",
		"State University",
	}, "\n")

	assert.Equal(t, expect, ExtractEducation(text))
	assert.Empty(t, ExtractEducation("nothing relevant"))
	assert.Equal(t, "PhD", ExtractEducation("PhD"))
}

func TestExtractSkillsWithoutModel(t *testing.T) {
	t.Parallel()

	p := NewParser(nil, nil, nil)

	assert.Equal(t, []string{"python"}, p.ExtractSkills("Python and PYTHON"))
	assert.Equal(t, []string{"docker", "kubernetes", "ci/cd", "rest api"},
		p.ExtractSkills("Docker, Kubernetes, CI/CD pipelines and REST API design"))
	assert.Empty(t, p.ExtractSkills(""))
}

func TestExtractKeywordsWithoutModel(t *testing.T) {
	t.Parallel()

	p := NewParser(nil, nil, nil)

	assert.Equal(t, []string{"golang", "developer", "with", "kubernetes"},
		p.ExtractKeywords("Golang developer with Kubernetes and golang"))

	var words []string
	for i := range 60 {
		words = append(words, "word"+string(rune('a'+i/26))+string(rune('a'+i%26)))
	}
	got := p.ExtractKeywords(strings.Join(words, " "))
	require.Len(t, got, 50)
	assert.Equal(t, words[:50], got)
}

func TestParse(t *testing.T) {
	t.Parallel()

	c := NewParser(nil, nil, nil).Parse(sampleResume)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "jane.doe@example.com", c.Email)
	assert.Equal(t, "(555) 123-4567", c.Phone)
	assert.ElementsMatch(t, []string{"python", "django", "sql", "postgresql", "docker", "rest api"}, c.Skills)
	assert.True(t, strings.HasPrefix(c.Experience, "Work Experience\nAcme Corp"))
	assert.Contains(t, c.Education, "State University")
	assert.Equal(t, sampleResume, c.RawText)
	assert.Empty(t, c.FilePath)
}

func TestParseEmptyText(t *testing.T) {
	t.Parallel()

	c := NewParser(nil, nil, nil).Parse("")

	assert.Equal(t, UnknownName, c.Name)
	assert.Empty(t, c.Email)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.Skills)
	assert.Empty(t, c.Experience)
	assert.Empty(t, c.Education)
	assert.Empty(t, c.Keywords)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleResume), 0o600))

	p := NewParser(nil, extract.New(nil), nil)

	c, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.FilePath)
	assert.Equal(t, "Jane Doe", c.Name)

	_, err = p.ParseFile(filepath.Join(dir, "jane.rtf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrUnsupportedFormat))
}

func TestParseWithModel(t *testing.T) {
	t.Parallel()

	model, err := nlp.Load()
	require.NoError(t, err)

	p := NewParser(model, nil, nil)
	c := p.Parse(sampleResume)

	assert.Subset(t, c.Skills, []string{"python", "docker", "django"})
	assert.LessOrEqual(t, len(c.Keywords), 50)
	for _, kw := range c.Keywords {
		assert.Equal(t, strings.ToLower(kw), kw)
		assert.GreaterOrEqual(t, len([]rune(kw)), 4)
		assert.False(t, nlp.IsStopWord(kw), kw)
	}
}
