package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

type walkerFake struct {
	tree *ports.WalkedFolder
	err  error
}

func (f *walkerFake) Walk(context.Context, string) (*ports.WalkedFolder, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tree, nil
}

type detectorFake struct {
	types map[string]domain.DocumentType
}

func (f *detectorFake) Detect(path string) domain.DocumentType {
	if t, ok := f.types[path]; ok {
		return t
	}
	return domain.TypeOther
}

type extractorFake struct {
	texts    map[string]string
	failures map[string]error
}

func (f *extractorFake) Extract(_ context.Context, path string, _ domain.DocumentType) (*string, error) {
	if err, ok := f.failures[path]; ok {
		return nil, err
	}
	if text, ok := f.texts[path]; ok {
		return &text, nil
	}
	return nil, nil
}

type classifierFake struct {
	calls int
}

func (f *classifierFake) Classify(_ context.Context, text, _ string) (domain.Classification, domain.Sentiment) {
	f.calls++
	if text == "" {
		return domain.DefaultClassification(), domain.NeutralSentiment()
	}
	return domain.Classification{Category: "Contract", Confidence: 0.8},
		domain.Sentiment{Polarity: 0.3, Subjectivity: 0.4, Label: domain.SentimentPositive}
}

type storeFake struct {
	scans   []*domain.FolderScan
	saveErr error
}

func (f *storeFake) SaveScan(_ context.Context, scan *domain.FolderScan) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.scans = append(f.scans, scan)
	return nil
}

func (f *storeFake) GetDocument(context.Context, string) (*domain.Document, error) { return nil, nil }
func (f *storeFake) ListDocuments(context.Context, string, bool) ([]domain.Document, error) {
	return nil, nil
}
func (f *storeFake) GetFolderByPath(context.Context, string) (*domain.Folder, error) {
	return nil, nil
}
func (f *storeFake) DeleteDocument(context.Context, string) error { return nil }
func (f *storeFake) DeleteFolder(context.Context, string) error   { return nil }

func scenarioTree() *ports.WalkedFolder {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &ports.WalkedFolder{
		Name: "contracts",
		Path: "/data/contracts",
		Files: []ports.FileEntry{
			{Name: "empty.txt", Path: "/data/contracts/empty.txt", Size: 0, ModifiedAt: now},
			{Name: "deal.docx", Path: "/data/contracts/deal.docx", Size: 2048, ModifiedAt: now.Add(time.Hour)},
			{Name: "scan.png", Path: "/data/contracts/scan.png", Size: 4096, ModifiedAt: now},
			{Name: "locked.pdf", Path: "/data/contracts/locked.pdf", Size: 512, ModifiedAt: now},
		},
	}
}

func newScenarioUseCase(store *storeFake, classifier *classifierFake) *AnalyzeFolderUseCase {
	walker := &walkerFake{tree: scenarioTree()}
	detector := &detectorFake{types: map[string]domain.DocumentType{
		"/data/contracts/empty.txt":  domain.TypeTXT,
		"/data/contracts/deal.docx":  domain.TypeDOCX,
		"/data/contracts/scan.png":   domain.TypePNG,
		"/data/contracts/locked.pdf": domain.TypePDF,
	}}
	extractor := &extractorFake{
		texts: map[string]string{
			"/data/contracts/empty.txt": "",
			"/data/contracts/deal.docx": "agreement terms",
		},
		failures: map[string]error{
			"/data/contracts/locked.pdf": errors.New("open: permission denied"),
		},
	}
	return NewAnalyzeFolderUseCase(walker, detector, extractor, classifier, store, 2)
}

func TestAnalyzeMixedFolderScenario(t *testing.T) {
	store := &storeFake{}
	classifier := &classifierFake{}
	uc := newScenarioUseCase(store, classifier)

	report, err := uc.Analyze(context.Background(), "/data/contracts")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.TotalDocuments != 4 {
		t.Fatalf("expected 4 documents including the unreadable one, got %d", report.TotalDocuments)
	}
	typeSum := 0
	for _, n := range report.DocumentTypes {
		typeSum += n
	}
	if typeSum != report.TotalDocuments {
		t.Fatalf("document type counts sum to %d, want %d", typeSum, report.TotalDocuments)
	}
	if report.TotalSize != 0+2048+4096+512 {
		t.Fatalf("unexpected total size %d", report.TotalSize)
	}

	byName := map[string]domain.Document{}
	for _, doc := range report.Documents {
		byName[doc.Filename] = doc
	}
	if doc := byName["empty.txt"]; doc.Status != domain.StatusCompleted || doc.Classification.Category != "No subject" {
		t.Fatalf("empty txt should complete with default classification, got %+v", doc)
	}
	if doc := byName["deal.docx"]; doc.Status != domain.StatusCompleted || doc.Classification.Category != "Contract" || doc.Content == nil {
		t.Fatalf("docx should complete with non-default classification, got %+v", doc)
	}
	if doc := byName["scan.png"]; doc.Status != domain.StatusCompleted || doc.Content != nil || doc.Classification.Category != "No subject" {
		t.Fatalf("png should complete with nil content and default classification, got %+v", doc)
	}
	if doc := byName["locked.pdf"]; doc.Status != domain.StatusError || doc.Content != nil {
		t.Fatalf("unreadable file should be recorded with error status, got %+v", doc)
	}

	// The unreadable file never reaches the classifier.
	if classifier.calls != 3 {
		t.Fatalf("expected 3 classifier calls, got %d", classifier.calls)
	}
}

func TestAnalyzePersistsWholeScanOnce(t *testing.T) {
	store := &storeFake{}
	uc := newScenarioUseCase(store, &classifierFake{})

	if _, err := uc.Analyze(context.Background(), "/data/contracts"); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(store.scans) != 1 {
		t.Fatalf("expected one SaveScan call, got %d", len(store.scans))
	}
	if got := len(store.scans[0].AllDocuments()); got != 4 {
		t.Fatalf("persisted scan should hold 4 documents, got %d", got)
	}
	if store.scans[0].Folder.Path != "/data/contracts" {
		t.Fatalf("unexpected root folder path %q", store.scans[0].Folder.Path)
	}
}

func TestAnalyzeReturnsNotFoundFromWalker(t *testing.T) {
	walker := &walkerFake{err: domain.WrapError(domain.ErrFolderNotFound, "walk", errors.New("no such directory"))}
	uc := NewAnalyzeFolderUseCase(walker, &detectorFake{}, &extractorFake{}, &classifierFake{}, &storeFake{}, 4)

	_, err := uc.Analyze(context.Background(), "/missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestAnalyzePropagatesPersistenceFailure(t *testing.T) {
	store := &storeFake{saveErr: fmt.Errorf("database unavailable")}
	uc := newScenarioUseCase(store, &classifierFake{})

	if _, err := uc.Analyze(context.Background(), "/data/contracts"); err == nil {
		t.Fatalf("expected persistence error to propagate")
	}
}

func TestAnalyzeBuildsNestedFolderScans(t *testing.T) {
	tree := scenarioTree()
	tree.Subfolders = []*ports.WalkedFolder{
		{
			Name: "archive",
			Path: "/data/contracts/archive",
			Files: []ports.FileEntry{
				{Name: "old.txt", Path: "/data/contracts/archive/old.txt", Size: 10},
			},
		},
	}
	store := &storeFake{}
	uc := NewAnalyzeFolderUseCase(
		&walkerFake{tree: tree},
		&detectorFake{},
		&extractorFake{},
		&classifierFake{},
		store,
		2,
	)

	report, err := uc.Analyze(context.Background(), "/data/contracts")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.TotalDocuments != 5 {
		t.Fatalf("expected recursive report over 5 documents, got %d", report.TotalDocuments)
	}

	scan := store.scans[0]
	if len(scan.Subfolders) != 1 {
		t.Fatalf("expected one subfolder scan, got %d", len(scan.Subfolders))
	}
	sub := scan.Subfolders[0]
	if sub.Folder.ParentID == nil || *sub.Folder.ParentID != scan.Folder.ID {
		t.Fatalf("subfolder must point at root folder id")
	}
}
