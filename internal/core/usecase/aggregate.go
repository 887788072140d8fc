package usecase

import (
	"time"

	"github.com/kirillkom/docsight/internal/core/domain"
)

// Sentiment distribution buckets use a wider band than the per-document
// label so only clearly polarized documents land outside neutral.
const distributionThreshold = 0.2

// BuildAnalysis folds processed documents into the folder report. It is a
// pure function: zero documents produce zero totals with now as the
// last-modified sentinel.
func BuildAnalysis(docs []domain.Document, now time.Time) domain.FolderAnalysis {
	analysis := domain.FolderAnalysis{
		TotalDocuments:             len(docs),
		DocumentTypes:              make(map[domain.DocumentType]int),
		ClassificationDistribution: make(map[string]int),
		SentimentDistribution: map[domain.SentimentLabel]int{
			domain.SentimentPositive: 0,
			domain.SentimentNeutral:  0,
			domain.SentimentNegative: 0,
		},
		LastModified: now,
		Documents:    docs,
	}
	if len(docs) == 0 {
		return analysis
	}

	var polaritySum float64
	var scored int
	var lastModified time.Time
	for _, doc := range docs {
		analysis.TotalSize += doc.Size
		analysis.DocumentTypes[doc.Type]++
		if doc.Classification != nil {
			analysis.ClassificationDistribution[doc.Classification.Category]++
		}
		if doc.Sentiment != nil {
			polaritySum += doc.Sentiment.Polarity
			scored++
			switch {
			case doc.Sentiment.Polarity > distributionThreshold:
				analysis.SentimentDistribution[domain.SentimentPositive]++
			case doc.Sentiment.Polarity < -distributionThreshold:
				analysis.SentimentDistribution[domain.SentimentNegative]++
			default:
				analysis.SentimentDistribution[domain.SentimentNeutral]++
			}
		}
		if doc.ModifiedAt.After(lastModified) {
			lastModified = doc.ModifiedAt
		}
	}

	analysis.AverageFileSize = float64(analysis.TotalSize) / float64(len(docs))
	if scored > 0 {
		analysis.AverageSentiment = polaritySum / float64(scored)
	}
	if !lastModified.IsZero() {
		analysis.LastModified = lastModified
	}
	return analysis
}
