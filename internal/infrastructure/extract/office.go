package extract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// extractDOCX concatenates paragraph text with newline separators.
func (e *Extractor) extractDOCX(path string) (*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	body, _, err := docconv.ConvertDocx(f)
	if err != nil {
		slog.Warn("extract_docx_failed", "path", path, "error", err)
		return nil, nil
	}
	return textResult(e.truncate(strings.TrimSpace(body))), nil
}

// extractPDF concatenates page text and stops reading further pages once
// the cap is reached.
func (e *Extractor) extractPDF(path string) (*string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		slog.Warn("extract_pdf_failed", "path", path, "error", err)
		return nil, nil
	}
	defer f.Close()

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if builder.Len() >= e.maxTextLength {
			break
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("extract_pdf_page_failed", "path", path, "page", pageNum, "error", err)
			continue
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}
	return textResult(e.truncate(strings.TrimSpace(builder.String()))), nil
}
