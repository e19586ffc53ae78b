package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>
</w:body>
</w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeDocx(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": relsXML,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

func TestExtractTextPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		file   string
		data   []byte
		expect string
	}{
		{name: "empty file", file: "empty.txt", data: nil, expect: ""},
		{name: "plain utf-8", file: "cv.txt", data: []byte("Jane Doe\nGo developer"), expect: "Jane Doe\nGo developer"},
		{name: "uppercase extension", file: "CV.TXT", data: []byte("hello"), expect: "hello"},
		{name: "strips bom", file: "bom.txt", data: []byte("\xef\xbb\xbfJane"), expect: "Jane"},
		{name: "replaces invalid bytes", file: "bad.txt", data: []byte("a\xffb"), expect: "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, tt.file, tt.data)

			text, err := New(nil).ExtractText(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, text)
		})
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "photo.png", []byte("not a resume"))

	text, err := New(nil).ExtractText(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), ".png")
	assert.Empty(t, text)
}

func TestExtractTextCorruptFilesYieldEmpty(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	ex := New(zap.New(core))

	for _, name := range []string{"broken.pdf", "broken.docx", "legacy.doc"} {
		path := writeFile(t, name, []byte("definitely not a document"))

		text, err := ex.ExtractText(path)
		require.NoError(t, err, name)
		assert.Empty(t, text, name)
	}

	assert.Equal(t, 3, observed.FilterMessage("failed to extract text").Len())
}

func TestExtractTextEmptyFiles(t *testing.T) {
	t.Parallel()

	for _, ext := range SupportedExtensions() {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "empty"+ext, nil)

			text, err := New(nil).ExtractText(path)
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	t.Parallel()

	text, err := New(nil).ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTextDocx(t *testing.T) {
	t.Parallel()

	path := writeDocx(t, "cv.docx", documentXML)

	text, err := New(nil).ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\nSkills:\tGo\n", text)
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSupported("cv.PDF"))
	assert.True(t, IsSupported("/tmp/cv.docx"))
	assert.True(t, IsSupported("cv.doc"))
	assert.True(t, IsSupported("cv.txt"))
	assert.False(t, IsSupported("cv.rtf"))
	assert.False(t, IsSupported("README"))

	exts := SupportedExtensions()
	exts[0] = ".exe"
	assert.False(t, IsSupported("x.exe"))
}

func TestCleanHTML(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>p{}</style><script>var x = 1;</script></head>
<body><nav><p>Home</p></nav>
<h1>Go Developer</h1>
<p>We need  5 years of experience.</p>
<ul><li>Docker</li><li>Kubernetes</li></ul>
<footer><p>Contact</p></footer></body></html>`

	assert.Equal(t, "Go Developer\n\nWe need  5 years of experience.\n\nDocker\n\nKubernetes", CleanHTML(html))
	assert.Equal(t, "plain body text", CleanHTML("<div>plain\n   body  text</div>"))
}
