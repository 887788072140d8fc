package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// extractPlain reads raw text up to the cap. Content that is not valid
// UTF-8 is a binary file wearing a text extension and degrades to nil.
func (e *Extractor) extractPlain(path string) (*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, e.maxTextLength)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	raw := buf[:n]
	if !utf8.Valid(raw) {
		slog.Warn("extract_non_utf8_text", "path", path)
		return nil, nil
	}
	return textResult(e.truncate(string(raw))), nil
}

// extractCSV joins each row's fields with spaces, rows with newlines, and
// stops once the cap is reached.
func (e *Extractor) extractCSV(path string) (*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var builder strings.Builder
	for builder.Len() < e.maxTextLength {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("extract_csv_failed", "path", path, "error", err)
			return nil, nil
		}
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(strings.Join(record, " "))
	}
	return textResult(e.truncate(builder.String())), nil
}
