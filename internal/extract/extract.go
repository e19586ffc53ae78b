package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

// ErrUnsupportedFormat is returned for files whose extension has no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var supported = []string{".pdf", ".docx", ".doc", ".txt"}

// SupportedExtensions returns the lowercase extensions accepted by ExtractText.
func SupportedExtensions() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether path has an extension ExtractText can read.
func IsSupported(path string) bool {
	return slices.Contains(supported, strings.ToLower(filepath.Ext(path)))
}

// Extractor turns resume documents into plain text.
type Extractor struct {
	logger *zap.Logger
}

func New(l *zap.Logger) *Extractor {
	return &Extractor{logger: logger.OrNop(l)}
}

// ExtractText reads the document at path and returns its text.
// Only an unknown extension is reported as an error; unreadable or corrupt
// documents produce an empty string and a warning in the log.
func (e *Extractor) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	log := e.logger.With(zap.String(logger.FieldResumePath, path))

	var (
		text string
		err  error
	)

	switch ext {
	case ".txt":
		text, err = readText(path)
	case ".pdf":
		text, err = readPDF(path, log)
	case ".docx", ".doc":
		text, err = readDocx(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		log.Warn("failed to extract text", zap.String("format", ext), zap.Error(err))
		return text, nil
	}

	log.Debug("text extracted", zap.String("format", ext), zap.Int("length", len(text)))
	return text, nil
}
