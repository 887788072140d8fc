package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docsight/internal/core/domain"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &Store{db: db}, mock, func() { _ = db.Close() }
}

func TestGetDocumentReturnsDomainNotFound(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetDocument(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetDocumentHydratesSentimentAndClassification(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	now := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{
		"id", "folder_id", "filename", "file_type", "size", "path", "content",
		"sentiment_polarity", "sentiment_subjectivity", "sentiment_label",
		"metadata", "status", "created_at", "modified_at",
		"category", "confidence",
	}).AddRow(
		"doc-1", "folder-1", "deal.docx", "DOCX", int64(2048), "/library/deal.docx", "great deal",
		0.6, 0.4, "positive",
		[]byte(`{"source":"scan"}`), "completed", now, now,
		"Work", 0.8,
	)

	mock.ExpectQuery("SELECT").WithArgs("doc-1").WillReturnRows(rows)

	doc, err := store.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if doc.Type != domain.TypeDOCX || doc.Status != domain.StatusCompleted {
		t.Fatalf("unexpected type/status: %s/%s", doc.Type, doc.Status)
	}
	if doc.Content == nil || *doc.Content != "great deal" {
		t.Fatalf("unexpected content: %v", doc.Content)
	}
	if doc.Sentiment == nil || doc.Sentiment.Label != domain.SentimentPositive {
		t.Fatalf("unexpected sentiment: %+v", doc.Sentiment)
	}
	if doc.Classification == nil || doc.Classification.Category != "Work" {
		t.Fatalf("unexpected classification: %+v", doc.Classification)
	}
	if doc.Metadata["source"] != "scan" {
		t.Fatalf("unexpected metadata: %v", doc.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteDocumentReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteDocument(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveScanCommitsWholeTreeInOneTransaction(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	now := time.Now().UTC()
	content := "quarterly numbers"
	scan := &domain.FolderScan{
		Folder: domain.Folder{ID: "root-gen", Name: "library", Path: "/library", CreatedAt: now, ModifiedAt: now},
		Documents: []domain.Document{{
			ID: "doc-gen", Filename: "report.txt", Type: domain.TypeTXT, Size: 17,
			Path: "/library/report.txt", Content: &content,
			Sentiment:      &domain.Sentiment{Polarity: 0.2, Subjectivity: 0.3, Label: domain.SentimentPositive},
			Classification: &domain.Classification{Category: "Work", Confidence: 0.8},
			Metadata:       map[string]string{},
			Status:         domain.StatusCompleted,
			CreatedAt:      now, ModifiedAt: now,
		}},
		Subfolders: []*domain.FolderScan{{
			Folder: domain.Folder{ID: "sub-gen", Name: "archive", Path: "/library/archive", CreatedAt: now, ModifiedAt: now},
		}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO folders").
		WithArgs("root-gen", "library", "/library", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("root-stored"))
	mock.ExpectQuery("INSERT INTO documents").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-stored"))
	mock.ExpectExec("INSERT INTO classifications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO folders").
		WithArgs("sub-gen", "archive", "/library/archive", "root-stored", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sub-stored"))
	mock.ExpectCommit()

	if err := store.SaveScan(context.Background(), scan); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}
	if scan.Folder.ID != "root-stored" {
		t.Fatalf("folder should adopt the stored id, got %s", scan.Folder.ID)
	}
	if scan.Documents[0].ID != "doc-stored" {
		t.Fatalf("document should adopt the stored id, got %s", scan.Documents[0].ID)
	}
	if scan.Documents[0].FolderID != "root-stored" {
		t.Fatalf("document should point at the stored folder, got %s", scan.Documents[0].FolderID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveScanRollsBackOnFolderFailure(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	now := time.Now().UTC()
	scan := &domain.FolderScan{
		Folder: domain.Folder{ID: "root-gen", Name: "library", Path: "/library", CreatedAt: now, ModifiedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO folders").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := store.SaveScan(context.Background(), scan)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteFolderRemovesSubtreeBottomUp(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("WITH RECURSIVE subtree").
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("leaf").AddRow("mid").AddRow("root"))
	for _, id := range []string{"leaf", "mid", "root"} {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM folders").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := store.DeleteFolder(context.Background(), "root"); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteFolderReturnsDomainNotFoundForUnknownID(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("WITH RECURSIVE subtree").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := store.DeleteFolder(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetFolderByPathReturnsDomainNotFound(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, path, parent_id").
		WithArgs("/missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetFolderByPath(context.Background(), "/missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
