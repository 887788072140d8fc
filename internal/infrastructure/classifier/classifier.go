// Package classifier assigns subject and sentiment to extracted text. The
// expensive backend sits behind a content-addressed cache and every
// failure path degrades to the default result; classification never aborts
// a scan.
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

// MetricsRecorder receives cache and backend outcomes. Implementations are
// optional; a nil recorder disables reporting.
type MetricsRecorder interface {
	CacheHit()
	CacheMiss()
	BackendCall(outcome string)
}

type Classifier struct {
	backend   ports.ClassifierBackend
	sentiment ports.SentimentAnalyzer
	cache     ports.ClassificationCache
	metrics   MetricsRecorder
}

func New(backend ports.ClassifierBackend, sentiment ports.SentimentAnalyzer, cache ports.ClassificationCache, metrics MetricsRecorder) *Classifier {
	return &Classifier{
		backend:   backend,
		sentiment: sentiment,
		cache:     cache,
		metrics:   metrics,
	}
}

// Classify is total. Empty text short-circuits to the default result with
// no backend call; cache hits return unchanged; backend failures degrade
// to the default category while sentiment, being local and lexical, is
// still computed.
func (c *Classifier) Classify(ctx context.Context, text, path string) (domain.Classification, domain.Sentiment) {
	if strings.TrimSpace(text) == "" {
		return domain.DefaultClassification(), domain.NeutralSentiment()
	}

	key := CacheKey(text, path)
	if cached, ok := c.cache.Get(key); ok {
		c.recordCache(true)
		return cached.Classification, cached.Sentiment
	}
	c.recordCache(false)

	sentiment := c.sentiment.Analyze(text)

	classification, err := c.backend.ClassifyText(ctx, text)
	if err != nil {
		slog.Warn("classification_backend_failed", "path", path, "error", err)
		c.recordBackend("error")
		return domain.DefaultClassification(), sentiment
	}
	c.recordBackend("success")

	c.cache.Put(key, ports.CachedResult{Classification: classification, Sentiment: sentiment})
	return classification, sentiment
}

// CacheKey fingerprints (text, path). The path is part of the key, so the
// same text under a different path is a deliberate miss.
func CacheKey(text, path string) string {
	sum := sha256.Sum256([]byte(text + ":" + path))
	return hex.EncodeToString(sum[:])
}

func (c *Classifier) recordCache(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHit()
	} else {
		c.metrics.CacheMiss()
	}
}

func (c *Classifier) recordBackend(outcome string) {
	if c.metrics != nil {
		c.metrics.BackendCall(outcome)
	}
}
