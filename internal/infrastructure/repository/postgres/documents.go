package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/docsight/internal/core/domain"
)

const documentColumns = `
	d.id, d.folder_id, d.filename, d.file_type, d.size, d.path, d.content,
	d.sentiment_polarity, d.sentiment_subjectivity, d.sentiment_label,
	d.metadata, d.status, d.created_at, d.modified_at,
	c.category, c.confidence`

const getDocumentQuery = `
SELECT` + documentColumns + `
FROM documents d
LEFT JOIN classifications c ON c.document_id = d.id
WHERE d.id = $1`

const listDocumentsQuery = `
SELECT` + documentColumns + `
FROM documents d
LEFT JOIN classifications c ON c.document_id = d.id
WHERE d.folder_id = $1
ORDER BY d.path`

const listDocumentsRecursiveQuery = `
WITH RECURSIVE subtree AS (
	SELECT id FROM folders WHERE id = $1
	UNION ALL
	SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
)
SELECT` + documentColumns + `
FROM documents d
LEFT JOIN classifications c ON c.document_id = d.id
WHERE d.folder_id IN (SELECT id FROM subtree)
ORDER BY d.path`

func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, getDocumentQuery, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document "+id, err)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "get document "+id, err)
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, folderID string, recursive bool) ([]domain.Document, error) {
	query := listDocumentsQuery
	if recursive {
		query = listDocumentsRecursiveQuery
	}

	rows, err := s.db.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "list documents in "+folderID, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrTemporary, "scan document row", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "iterate document rows", err)
	}
	return docs, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "delete document "+id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "delete document "+id, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document "+id, sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc          domain.Document
		docType      string
		status       string
		content      sql.NullString
		polarity     sql.NullFloat64
		subjectivity sql.NullFloat64
		label        sql.NullString
		metadata     []byte
		category     sql.NullString
		confidence   sql.NullFloat64
	)

	err := row.Scan(
		&doc.ID, &doc.FolderID, &doc.Filename, &docType, &doc.Size, &doc.Path, &content,
		&polarity, &subjectivity, &label,
		&metadata, &status, &doc.CreatedAt, &doc.ModifiedAt,
		&category, &confidence,
	)
	if err != nil {
		return nil, err
	}

	doc.Type = domain.DocumentType(docType)
	doc.Status = domain.DocumentStatus(status)

	if content.Valid {
		doc.Content = &content.String
	}
	if polarity.Valid {
		doc.Sentiment = &domain.Sentiment{
			Polarity:     polarity.Float64,
			Subjectivity: subjectivity.Float64,
			Label:        domain.SentimentLabel(label.String),
		}
	}
	if category.Valid {
		doc.Classification = &domain.Classification{
			Category:   category.String,
			Confidence: confidence.Float64,
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decode document metadata: %w", err)
		}
	}
	return &doc, nil
}
