package extract

import (
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts plain text from a PDF file, page by page.
// Pages whose text cannot be decoded are skipped; extraction continues
// with the remaining pages.
func PDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	logger := slog.Default().With("component", "extract")

	var sb strings.Builder
	totalPages := r.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract page text", "page", pageNum, "error", err)
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
