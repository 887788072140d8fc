// Package extract turns supported document types into bounded plain text.
// Unsupported and binary types yield nil text with no error; malformed
// content degrades to nil text; only an unreadable file is an error.
package extract

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/kirillkom/docsight/internal/core/domain"
)

// DefaultMaxTextLength matches the classification snippet bound: longer
// content is truncated, not rejected.
const DefaultMaxTextLength = 5000

type Extractor struct {
	maxTextLength int
}

func New(maxTextLength int) *Extractor {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return &Extractor{maxTextLength: maxTextLength}
}

func (e *Extractor) Extract(ctx context.Context, path string, docType domain.DocumentType) (*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	switch docType {
	case domain.TypeTXT, domain.TypeMarkdown:
		return e.extractPlain(path)
	case domain.TypeCSV:
		return e.extractCSV(path)
	case domain.TypeDOCX:
		return e.extractDOCX(path)
	case domain.TypePDF:
		return e.extractPDF(path)
	default:
		// Images, spreadsheets, presentations and unknown binaries carry
		// no extractable text.
		return nil, nil
	}
}

// checkReadable separates "cannot read the file" (an error the pipeline
// records as document status=error) from "cannot make sense of the
// content" (a silent nil-text degrade).
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return f.Close()
}

// truncate caps text at the configured byte length without splitting a
// rune at the boundary.
func (e *Extractor) truncate(text string) string {
	if len(text) <= e.maxTextLength {
		return text
	}
	cut := e.maxTextLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func textResult(s string) *string {
	return &s
}
