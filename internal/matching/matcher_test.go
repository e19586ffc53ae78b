package matching

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/extract"
)

const goJob = `Backend Developer
We need 3+ years of experience with Python, Django, Docker and PostgreSQL.`

func writeResume(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMatchSkipsBrokenResumes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	core, observed := observer.New(zapcore.WarnLevel)

	paths := []string{
		writeResume(t, dir, "jane.txt", "Jane Doe\nPython and Django developer, Docker, PostgreSQL"),
		filepath.Join(dir, "missing.txt"),
		writeResume(t, dir, "john.txt", "John Smith\nWatercolor painter"),
	}

	results, err := New(nil, zap.New(core)).Match(context.Background(), goJob, paths, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, results.Len())
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, results.Names())
	assert.Greater(t, results.Items[0].MatchScore, results.Items[1].MatchScore)
	assert.Equal(t, 1.0, results.Items[0].SkillsMatch)

	skipped := observed.FilterMessage("skipping resume").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, paths[1], skipped[0].ContextMap()["resume_path"])
}

func TestMatchSkipsUnsupportedFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeResume(t, dir, "jane.txt", "Jane Doe\nPython"),
		writeResume(t, dir, "photo.png", "binary"),
	}

	results, err := New(nil, nil).Match(context.Background(), goJob, paths, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, results.Names())
}

func TestMatchEmpty(t *testing.T) {
	t.Parallel()

	results, err := New(nil, nil).Match(context.Background(), goJob, nil, Options{TopN: 5})
	require.NoError(t, err)
	assert.Zero(t, results.Len())

	results, err = New(nil, nil).Match(context.Background(), goJob, []string{"/does/not/exist.pdf"}, Options{})
	require.NoError(t, err)
	assert.Zero(t, results.Len())
}

func TestMatchTopNAndMinScore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bodies := []string{
		"Alice Walker\nPython Django Docker PostgreSQL backend developer",
		"Bobby Tables\nPython Django developer",
		"Carol Danvers\nPython developer",
		"Derek Jones\nCooking and gardening",
		"Erica Stone\nKnitting",
	}

	var paths []string
	for i, body := range bodies {
		paths = append(paths, writeResume(t, dir, fmt.Sprintf("cv%d.txt", i), body))
	}

	m := New(nil, nil)

	all, err := m.Match(context.Background(), goJob, paths, Options{})
	require.NoError(t, err)
	require.Equal(t, 5, all.Len())

	top, err := m.Match(context.Background(), goJob, paths, Options{TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, all.Names()[:2], top.Names())

	filtered, err := m.Match(context.Background(), goJob, paths, Options{MinScore: 0.5})
	require.NoError(t, err)
	for _, r := range filtered.Items {
		assert.GreaterOrEqual(t, r.MatchScore, 50.0)
	}
	for _, r := range all.Items {
		if r.MatchScore >= 50 {
			assert.NotNil(t, filtered.FindByPath(r.FilePath))
		}
	}
}

func TestMatchHonoursCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeResume(t, dir, "jane.txt", "Jane Doe")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, nil).Match(ctx, goJob, []string{path}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := New(nil, nil)

	c, err := m.ParseResume(writeResume(t, dir, "jane.txt", "Jane Doe\njane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", c.Email)

	_, err = m.ParseResume(writeResume(t, dir, "jane.odt", "Jane"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrUnsupportedFormat))
}

func TestAnalyzeJob(t *testing.T) {
	t.Parallel()

	req, err := New(nil, nil).AnalyzeJob(goJob)
	require.NoError(t, err)
	assert.Equal(t, 3, req.ExperienceRequired)
	assert.Contains(t, req.RequiredSkills, "docker")
}

func TestAnalyzeJobTextNeverReadsFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python developer"), 0o600))

	req := New(nil, nil).AnalyzeJobText(path)
	assert.Equal(t, path, req.RawText)
	assert.NotContains(t, req.RequiredSkills, "python")
}
