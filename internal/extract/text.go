package extract

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readText decodes a UTF-8 file, dropping a leading BOM and replacing
// invalid sequences with U+FFFD.
func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode text file: %w", err)
	}

	return string(data), nil
}
