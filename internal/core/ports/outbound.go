package ports

import (
	"context"
	"time"

	"github.com/kirillkom/docsight/internal/core/domain"
)

// FileEntry is one file seen during traversal, before any processing.
type FileEntry struct {
	Name       string
	Path       string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// WalkedFolder is the side-effect-free output of one traversal: raw file
// entries and subtrees, in deterministic per-directory order.
type WalkedFolder struct {
	Name       string
	Path       string
	Files      []FileEntry
	Subfolders []*WalkedFolder
}

// FolderWalker enumerates a directory tree. Per-entry failures are logged
// and skipped; only a missing root aborts the walk.
type FolderWalker interface {
	Walk(ctx context.Context, root string) (*WalkedFolder, error)
}

// TypeDetector maps a file to a semantic document type. It never fails:
// any probe error degrades to domain.TypeOther.
type TypeDetector interface {
	Detect(path string) domain.DocumentType
}

// TextExtractor produces capped plain text for a detected type, or nil for
// binary/unsupported content. Malformed content degrades to nil text; only
// a file that cannot be read at all surfaces as an error.
type TextExtractor interface {
	Extract(ctx context.Context, path string, docType domain.DocumentType) (*string, error)
}

// DocumentClassifier assigns subject and sentiment to extracted text. The
// contract is total: empty text and backend failures both resolve to the
// default result instead of an error.
type DocumentClassifier interface {
	Classify(ctx context.Context, text, path string) (domain.Classification, domain.Sentiment)
}

// ClassifierBackend is the swappable classification capability behind the
// DocumentClassifier (keyword rules, local model, remote LLM).
type ClassifierBackend interface {
	ClassifyText(ctx context.Context, text string) (domain.Classification, error)
}

// SentimentAnalyzer scores the emotional tone of text lexically.
type SentimentAnalyzer interface {
	Analyze(text string) domain.Sentiment
}

// CachedResult is one classification cache entry.
type CachedResult struct {
	Classification domain.Classification `json:"classification"`
	Sentiment      domain.Sentiment      `json:"sentiment"`
}

// ClassificationCache is a content-addressed result store. Lookups must be
// safe under concurrent access and treat corrupt entries as misses. A
// racing duplicate Put is wasted work, not an error: last writer wins.
type ClassificationCache interface {
	Get(key string) (CachedResult, bool)
	Put(key string, result CachedResult)
}

// ScanStore is the durable record of folders, documents and
// classifications. SaveScan persists one whole scan transactionally with
// upsert-by-path semantics; deletes cascade.
type ScanStore interface {
	SaveScan(ctx context.Context, scan *domain.FolderScan) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, folderID string, recursive bool) ([]domain.Document, error)
	GetFolderByPath(ctx context.Context, path string) (*domain.Folder, error)
	DeleteDocument(ctx context.Context, id string) error
	DeleteFolder(ctx context.Context, id string) error
}

// ScanQueue carries asynchronous scan jobs between the API and the worker.
type ScanQueue interface {
	PublishScanRequested(ctx context.Context, job domain.ScanJob) error
	SubscribeScanRequested(ctx context.Context, handler func(context.Context, domain.ScanJob) error) error
}
