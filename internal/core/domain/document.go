package domain

import "time"

type DocumentType string

const (
	TypePDF      DocumentType = "PDF"
	TypeDOCX     DocumentType = "DOCX"
	TypeTXT      DocumentType = "TXT"
	TypeCSV      DocumentType = "CSV"
	TypeXLSX     DocumentType = "XLSX"
	TypePPTX     DocumentType = "PPTX"
	TypeJPG      DocumentType = "JPG"
	TypePNG      DocumentType = "PNG"
	TypeMarkdown DocumentType = "MARKDOWN"
	TypeOther    DocumentType = "OTHER"
)

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusError      DocumentStatus = "error"
)

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment describes the emotional tone of extracted text.
// Polarity is in [-1, 1], subjectivity in [0, 1].
type Sentiment struct {
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Label        SentimentLabel `json:"label"`
}

// Classification is the subject assigned to a document, independent of
// sentiment.
type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Document is one file inside a scanned folder. Path is the full
// filesystem path and unique together with FolderID.
type Document struct {
	ID             string            `json:"id"`
	FolderID       string            `json:"folder_id,omitempty"`
	Filename       string            `json:"filename"`
	Type           DocumentType      `json:"file_type"`
	Size           int64             `json:"size"`
	Path           string            `json:"path"`
	Content        *string           `json:"content,omitempty"`
	Sentiment      *Sentiment        `json:"sentiment,omitempty"`
	Classification *Classification   `json:"classification,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Status         DocumentStatus    `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	ModifiedAt     time.Time         `json:"modified_at"`
}

// LabelForPolarity buckets a polarity score into a sentiment label.
func LabelForPolarity(polarity float64) SentimentLabel {
	switch {
	case polarity > 0.1:
		return SentimentPositive
	case polarity < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// DefaultClassification is returned for empty text and for any backend
// failure, so per-file classification never aborts a scan.
func DefaultClassification() Classification {
	return Classification{Category: "No subject", Confidence: 0.5}
}

// NeutralSentiment accompanies the default classification.
func NeutralSentiment() Sentiment {
	return Sentiment{Polarity: 0, Subjectivity: 0, Label: SentimentNeutral}
}
