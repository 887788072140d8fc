package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

// LibraryUseCase is the read/delete surface over persisted scan results.
type LibraryUseCase struct {
	store ports.ScanStore
}

func NewLibraryUseCase(store ports.ScanStore) *LibraryUseCase {
	return &LibraryUseCase{store: store}
}

func (uc *LibraryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *LibraryUseCase) ListByFolder(ctx context.Context, folderID string, recursive bool) ([]domain.Document, error) {
	docs, err := uc.store.ListDocuments(ctx, folderID, recursive)
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}
	return docs, nil
}

// ListByFolderPath resolves a stored folder by its filesystem path first,
// so callers can query with the same path they scanned with.
func (uc *LibraryUseCase) ListByFolderPath(ctx context.Context, path string, recursive bool) ([]domain.Document, error) {
	folder, err := uc.store.GetFolderByPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolve folder by path: %w", err)
	}
	return uc.ListByFolder(ctx, folder.ID, recursive)
}

func (uc *LibraryUseCase) RemoveDocument(ctx context.Context, id string) error {
	if err := uc.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// RemoveFolder deletes a folder subtree; the store cascades through
// documents and subfolders bottom-up before removing the row itself.
func (uc *LibraryUseCase) RemoveFolder(ctx context.Context, id string) error {
	if err := uc.store.DeleteFolder(ctx, id); err != nil {
		return fmt.Errorf("delete folder subtree: %w", err)
	}
	return nil
}
