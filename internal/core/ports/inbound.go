package ports

import (
	"context"

	"github.com/kirillkom/docsight/internal/core/domain"
)

// FolderAnalyzer is the inbound contract for the whole pipeline: scan a
// folder tree, persist it, and return the aggregate report.
type FolderAnalyzer interface {
	Analyze(ctx context.Context, folderPath string) (*domain.FolderAnalysis, error)
}

// ScanScheduler enqueues a folder scan for asynchronous processing.
type ScanScheduler interface {
	Schedule(ctx context.Context, folderPath string) (jobID string, err error)
}

// DocumentReader is the inbound read model for persisted documents.
// Folders can be addressed by stored id or, matching how scans are
// requested, by filesystem path.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByFolder(ctx context.Context, folderID string, recursive bool) ([]domain.Document, error)
	ListByFolderPath(ctx context.Context, path string, recursive bool) ([]domain.Document, error)
}

// LibraryRemover deletes persisted documents and folder subtrees.
type LibraryRemover interface {
	RemoveDocument(ctx context.Context, id string) error
	RemoveFolder(ctx context.Context, id string) error
}
