package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

func sampleResult() ports.CachedResult {
	return ports.CachedResult{
		Classification: domain.Classification{Category: "Invoice", Confidence: 0.8},
		Sentiment:      domain.Sentiment{Polarity: 0.2, Subjectivity: 0.4, Label: domain.SentimentPositive},
	}
}

func TestPutThenGetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Put("abc123", sampleResult())
	got, ok := c.Get("abc123")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got.Classification.Category != "Invoice" || got.Sentiment.Label != domain.SentimentPositive {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestGetMissingKeyIsMiss(t *testing.T) {
	c, _ := New(t.TempDir())
	if _, ok := c.Get("never-written"); ok {
		t.Fatalf("expected miss")
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Fatalf("corrupt entry must read as a miss")
	}
}

func TestConcurrentPutGetIsSafe(t *testing.T) {
	c, _ := New(t.TempDir())
	result := sampleResult()

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put("shared", result)
		}()
		go func() {
			defer wg.Done()
			if got, ok := c.Get("shared"); ok && got.Classification.Category != "Invoice" {
				t.Errorf("observed torn entry %+v", got)
			}
		}()
	}
	wg.Wait()

	if got, ok := c.Get("shared"); !ok || got.Classification.Category != "Invoice" {
		t.Fatalf("expected final entry, got ok=%v %+v", ok, got)
	}
}
