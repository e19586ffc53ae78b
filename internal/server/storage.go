package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/resume-matcher/internal/extract"
)

var (
	errInvalidName = errors.New("invalid file name")
	unsafeNameRe   = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Storage keeps uploaded resumes in a single flat directory.
type Storage struct {
	uploadDir string
}

func NewStorage(uploadDir string) *Storage {
	return &Storage{uploadDir: uploadDir}
}

func (s *Storage) EnsureDir() error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// Save stores an uploaded file as <uuid>_<sanitised name> and returns the stored name.
func (s *Storage) Save(file *multipart.FileHeader) (string, error) {
	if !extract.IsSupported(file.Filename) {
		return "", fmt.Errorf("%w: %q", extract.ErrUnsupportedFormat, filepath.Ext(file.Filename))
	}

	name := fmt.Sprintf("%s_%s", uuid.New().String(), sanitizeName(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := writeFile(filepath.Join(s.uploadDir, name), src); err != nil {
		return "", err
	}

	return name, nil
}

// writeFile copies src into a new file at path. Nothing is left at path on failure.
func writeFile(path string, src io.Reader) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// Path resolves a stored name inside the upload directory. Names that would
// escape the directory are rejected.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", errInvalidName
	}
	return filepath.Join(s.uploadDir, name), nil
}

// Exists reports whether name is a stored regular file.
func (s *Storage) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Storage) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// sanitizeName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with underscores.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Trim(unsafeNameRe.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "file"
	}
	return name
}
