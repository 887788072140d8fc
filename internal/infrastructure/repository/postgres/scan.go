package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kirillkom/docsight/internal/core/domain"
)

const upsertFolderQuery = `
INSERT INTO folders (id, name, path, parent_id, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (path) DO UPDATE SET
	name = EXCLUDED.name,
	parent_id = EXCLUDED.parent_id,
	modified_at = EXCLUDED.modified_at
RETURNING id`

const upsertDocumentQuery = `
INSERT INTO documents (
	id, folder_id, filename, file_type, size, path, content,
	sentiment_polarity, sentiment_subjectivity, sentiment_label,
	metadata, status, created_at, modified_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (folder_id, path) DO UPDATE SET
	filename = EXCLUDED.filename,
	file_type = EXCLUDED.file_type,
	size = EXCLUDED.size,
	content = EXCLUDED.content,
	sentiment_polarity = EXCLUDED.sentiment_polarity,
	sentiment_subjectivity = EXCLUDED.sentiment_subjectivity,
	sentiment_label = EXCLUDED.sentiment_label,
	metadata = EXCLUDED.metadata,
	status = EXCLUDED.status,
	modified_at = EXCLUDED.modified_at
RETURNING id`

const upsertClassificationQuery = `
INSERT INTO classifications (id, document_id, category, confidence, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (document_id) DO UPDATE SET
	category = EXCLUDED.category,
	confidence = EXCLUDED.confidence`

// SaveScan persists a whole scan tree in a single transaction. Folders and
// documents that already exist (same path) are updated in place and keep
// their stored identifiers, so re-scanning a folder never duplicates rows.
func (s *Store) SaveScan(ctx context.Context, scan *domain.FolderScan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scan tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.saveScanTree(ctx, tx, scan, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scan tx: %w", err)
	}
	return nil
}

func (s *Store) saveScanTree(ctx context.Context, tx *sql.Tx, scan *domain.FolderScan, parentID *string) error {
	folder := &scan.Folder

	var storedID string
	err := tx.QueryRowContext(ctx, upsertFolderQuery,
		folder.ID, folder.Name, folder.Path, parentID,
		folder.CreatedAt, folder.ModifiedAt,
	).Scan(&storedID)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "upsert folder "+folder.Path, err)
	}
	// The stored row wins when the path was already known.
	folder.ID = storedID

	for i := range scan.Documents {
		if err := s.saveDocument(ctx, tx, &scan.Documents[i], storedID); err != nil {
			return err
		}
	}

	for _, sub := range scan.Subfolders {
		if err := s.saveScanTree(ctx, tx, sub, &storedID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveDocument(ctx context.Context, tx *sql.Tx, doc *domain.Document, folderID string) error {
	doc.FolderID = folderID

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "encode document metadata", err)
	}

	var polarity, subjectivity sql.NullFloat64
	var label sql.NullString
	if doc.Sentiment != nil {
		polarity = sql.NullFloat64{Float64: doc.Sentiment.Polarity, Valid: true}
		subjectivity = sql.NullFloat64{Float64: doc.Sentiment.Subjectivity, Valid: true}
		label = sql.NullString{String: string(doc.Sentiment.Label), Valid: true}
	}

	var content sql.NullString
	if doc.Content != nil {
		content = sql.NullString{String: *doc.Content, Valid: true}
	}

	var storedID string
	err = tx.QueryRowContext(ctx, upsertDocumentQuery,
		doc.ID, folderID, doc.Filename, string(doc.Type), doc.Size, doc.Path,
		content, polarity, subjectivity, label,
		metadata, string(doc.Status), doc.CreatedAt, doc.ModifiedAt,
	).Scan(&storedID)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "upsert document "+doc.Path, err)
	}
	doc.ID = storedID

	if doc.Classification == nil {
		return nil
	}
	_, err = tx.ExecContext(ctx, upsertClassificationQuery,
		uuid.NewString(), storedID,
		doc.Classification.Category, doc.Classification.Confidence,
		doc.ModifiedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "upsert classification for "+doc.Path, err)
	}
	return nil
}
