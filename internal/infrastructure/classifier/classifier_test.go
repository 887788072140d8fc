package classifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

type backendFake struct {
	calls int
	cls   domain.Classification
	err   error
}

func (f *backendFake) ClassifyText(context.Context, string) (domain.Classification, error) {
	f.calls++
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	return f.cls, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]ports.CachedResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]ports.CachedResult)}
}

func (c *memoryCache) Get(key string) (ports.CachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *memoryCache) Put(key string, result ports.CachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}

func TestClassifyEmptyTextSkipsBackend(t *testing.T) {
	backend := &backendFake{cls: domain.Classification{Category: "Report", Confidence: 0.8}}
	c := New(backend, NewLexiconAnalyzer(), newMemoryCache(), nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		cls, sentiment := c.Classify(context.Background(), text, "/f/a.txt")
		if cls != domain.DefaultClassification() {
			t.Fatalf("expected default classification for %q, got %+v", text, cls)
		}
		if sentiment.Label != domain.SentimentNeutral {
			t.Fatalf("expected neutral sentiment, got %+v", sentiment)
		}
	}
	if backend.calls != 0 {
		t.Fatalf("backend must not be called for empty text, got %d calls", backend.calls)
	}
}

func TestClassifyCacheHitSkipsSecondBackendCall(t *testing.T) {
	backend := &backendFake{cls: domain.Classification{Category: "Contract", Confidence: 0.8}}
	c := New(backend, NewLexiconAnalyzer(), newMemoryCache(), nil)

	first, _ := c.Classify(context.Background(), "agreement terms", "/f/deal.docx")
	second, _ := c.Classify(context.Background(), "agreement terms", "/f/deal.docx")

	if backend.calls != 1 {
		t.Fatalf("expected exactly one backend call, got %d", backend.calls)
	}
	if first != second {
		t.Fatalf("cache hit must return the stored result unchanged: %+v vs %+v", first, second)
	}
}

func TestClassifySamePathDifferentTextMisses(t *testing.T) {
	backend := &backendFake{cls: domain.Classification{Category: "Contract", Confidence: 0.8}}
	c := New(backend, NewLexiconAnalyzer(), newMemoryCache(), nil)

	c.Classify(context.Background(), "agreement terms", "/f/deal.docx")
	c.Classify(context.Background(), "totally different words", "/f/deal.docx")

	if backend.calls != 2 {
		t.Fatalf("changed content must miss the cache, got %d calls", backend.calls)
	}
}

func TestClassifySameTextDifferentPathMisses(t *testing.T) {
	// The path is part of the cache key by policy.
	backend := &backendFake{cls: domain.Classification{Category: "Contract", Confidence: 0.8}}
	c := New(backend, NewLexiconAnalyzer(), newMemoryCache(), nil)

	c.Classify(context.Background(), "agreement terms", "/f/deal.docx")
	c.Classify(context.Background(), "agreement terms", "/f/copy.docx")

	if backend.calls != 2 {
		t.Fatalf("same text at a new path must miss, got %d calls", backend.calls)
	}
}

func TestClassifyBackendFailureDegradesToDefault(t *testing.T) {
	backend := &backendFake{err: errors.New("backend down")}
	cacheStore := newMemoryCache()
	c := New(backend, NewLexiconAnalyzer(), cacheStore, nil)

	cls, sentiment := c.Classify(context.Background(), "this is an excellent report", "/f/r.txt")
	if cls != domain.DefaultClassification() {
		t.Fatalf("expected default classification on backend failure, got %+v", cls)
	}
	// Sentiment is local and survives the backend outage.
	if sentiment.Label != domain.SentimentPositive {
		t.Fatalf("expected locally computed sentiment, got %+v", sentiment)
	}
	if len(cacheStore.entries) != 0 {
		t.Fatalf("failed classifications must not be cached")
	}
}

func TestCacheKeyIsDeterministic(t *testing.T) {
	a := CacheKey("text", "/p/file.txt")
	b := CacheKey("text", "/p/file.txt")
	if a != b {
		t.Fatalf("same inputs must produce the same key")
	}
	if a == CacheKey("text", "/p/other.txt") {
		t.Fatalf("path must contribute to the key")
	}
	if a == CacheKey("other", "/p/file.txt") {
		t.Fatalf("text must contribute to the key")
	}
}
