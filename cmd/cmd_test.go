package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/scoring"
)

func TestCollectResumes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.txt", "c.DOCX", "notes.md", "photo.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o700))

	paths, err := collectResumes(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.DOCX"),
	}, paths)

	single := filepath.Join(dir, "notes.md")
	paths, err = collectResumes(single)
	require.NoError(t, err)
	assert.Equal(t, []string{single}, paths)

	_, err = collectResumes(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = collectResumes(empty)
	assert.True(t, errors.Is(err, errNoResumes))
}

func TestPrintResults(t *testing.T) {
	results := &scoring.Results{Items: []*scoring.MatchResult{
		{Name: "Jane Doe", Email: "jane@example.com", FilePath: "cv/jane.txt", MatchScore: 87.5, SkillsMatch: 0.5},
	}}

	var buf bytes.Buffer
	printResults(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "MATCHING RESULTS")
	assert.Contains(t, out, "Top 1 Candidates:")
	assert.Contains(t, out, "1. Jane Doe\n")
	assert.Contains(t, out, "   Email: jane@example.com\n")
	assert.Contains(t, out, "   Match Score: 87.5%\n")
	assert.Contains(t, out, "   Skills Match: 50.0%\n")
	assert.Contains(t, out, "   File: cv/jane.txt\n")
}

func TestGetConfig(t *testing.T) {
	viper.Set("matching.top", "3")
	viper.Set("server.request-timeout", "5s")
	t.Cleanup(func() {
		viper.Set("matching.top", 10)
		viper.Set("server.request-timeout", "1m0s")
	})

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, config.Matching.Top)
	assert.Equal(t, 0.0, config.Matching.MinScore)
	assert.True(t, config.NLP.Enabled)
	assert.Equal(t, "127.0.0.1:5000", config.Server.Addr)
	assert.Equal(t, int64(4*1024*1024), config.Server.MaxFileSize)
	assert.Equal(t, 100, config.Server.MaxResumes)
	assert.Equal(t, 5*time.Second, config.Server.RequestTimeout)
}

func TestHandleAction(t *testing.T) {
	entries := []report.Entry{
		{Rank: 1, Name: "Jane Doe", MatchScore: 80},
		{Rank: 2, Name: "John Smith", MatchScore: 55.5},
		{Rank: 3, Name: "Unknown", MatchScore: 10},
	}
	results := &scoring.Results{}

	var buf bytes.Buffer
	require.NoError(t, handleAction(&buf, PromptReportByBand, results, entries, zap.NewNop()))

	out := buf.String()
	assert.Contains(t, out, "strong (1)\n  1. Jane Doe (80%)")
	assert.Contains(t, out, "moderate (1)\n  2. John Smith (55.5%)")
	assert.Contains(t, out, "weak (1)\n  3. Unknown (10%)")

	assert.ErrorIs(t, handleAction(&buf, PromptExit, results, entries, zap.NewNop()), errExit)
}

func TestPrintCandidate(t *testing.T) {
	var buf bytes.Buffer
	err := printCandidate(&buf, &scoring.MatchResult{
		FilePath:    "jane.txt",
		MatchScore:  42,
		SkillsMatch: 1,
		Candidate:   &resume.Candidate{Name: "Jane Doe", Skills: []string{"python"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Match Score: 42%  Skills Match: 100.0%")
	assert.Contains(t, out, `"name": "Jane Doe"`)
	assert.Contains(t, out, `"python"`)
}
