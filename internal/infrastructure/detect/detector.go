// Package detect maps files to semantic document types. The primary signal
// is a content sniff of the leading bytes; extension matching is the
// fallback, and every failure degrades to OTHER instead of an error.
package detect

import (
	"archive/zip"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kirillkom/docsight/internal/core/domain"
)

var mimeTypes = map[string]domain.DocumentType{
	"application/pdf": domain.TypePDF,
	"image/jpeg":      domain.TypeJPG,
	"image/png":       domain.TypePNG,
}

var extensionTypes = map[string]domain.DocumentType{
	".pdf":      domain.TypePDF,
	".doc":      domain.TypeDOCX,
	".docx":     domain.TypeDOCX,
	".txt":      domain.TypeTXT,
	".md":       domain.TypeMarkdown,
	".markdown": domain.TypeMarkdown,
	".csv":      domain.TypeCSV,
	".xls":      domain.TypeXLSX,
	".xlsx":     domain.TypeXLSX,
	".ppt":      domain.TypePPTX,
	".pptx":     domain.TypePPTX,
	".jpg":      domain.TypeJPG,
	".jpeg":     domain.TypeJPG,
	".png":      domain.TypePNG,
}

// Detector memoizes results by path for the lifetime of one process; a
// path is normally scanned once per run.
type Detector struct {
	seen sync.Map // path -> domain.DocumentType
}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) Detect(path string) domain.DocumentType {
	if cached, ok := d.seen.Load(path); ok {
		return cached.(domain.DocumentType)
	}
	docType := d.detect(path)
	d.seen.Store(path, docType)
	return docType
}

func (d *Detector) detect(path string) domain.DocumentType {
	if docType, ok := sniff(path); ok {
		return docType
	}
	if docType, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return docType
	}
	return domain.TypeOther
}

func sniff(path string) (domain.DocumentType, bool) {
	f, err := os.Open(path)
	if err != nil {
		return domain.TypeOther, false
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return domain.TypeOther, false
	}

	contentType := http.DetectContentType(head[:n])
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)

	if docType, ok := mimeTypes[contentType]; ok {
		return docType, true
	}
	switch contentType {
	case "text/plain":
		return refineTextType(path), true
	case "application/zip":
		// OOXML containers all sniff as zip; member paths tell them apart.
		if docType, ok := sniffOfficeArchive(path); ok {
			return docType, true
		}
	}
	return domain.TypeOther, false
}

// refineTextType splits the text/plain family by extension, matching how
// the pipeline treats Markdown and CSV differently from raw text.
func refineTextType(path string) domain.DocumentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return domain.TypeMarkdown
	case ".csv":
		return domain.TypeCSV
	default:
		return domain.TypeTXT
	}
}

func sniffOfficeArchive(path string) (domain.DocumentType, bool) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return domain.TypeOther, false
	}
	defer r.Close()

	for _, file := range r.File {
		switch {
		case strings.HasPrefix(file.Name, "word/"):
			return domain.TypeDOCX, true
		case strings.HasPrefix(file.Name, "xl/"):
			return domain.TypeXLSX, true
		case strings.HasPrefix(file.Name, "ppt/"):
			return domain.TypePPTX, true
		}
	}
	return domain.TypeOther, false
}
