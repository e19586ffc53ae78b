package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

func readPDF(path string, log *zap.Logger) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()

	for i := 1; i <= total; i++ {
		pageText, err := pageText(r, i)
		if err != nil {
			log.Warn("skipping pdf page", zap.Int("page", i), zap.Error(err))
			continue
		}

		b.WriteString(pageText)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", i, rec)
		}
	}()

	page := r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}

	return page.GetPlainText(nil)
}
