package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

// AnalyzeFolderUseCase drives the whole pipeline: pure traversal, bounded
// per-file fan-out (detect, extract, classify), one transactional persist,
// then a pure fold into the folder report.
type AnalyzeFolderUseCase struct {
	walker     ports.FolderWalker
	detector   ports.TypeDetector
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	store      ports.ScanStore
	batchSize  int
	now        func() time.Time
}

func NewAnalyzeFolderUseCase(
	walker ports.FolderWalker,
	detector ports.TypeDetector,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	store ports.ScanStore,
	batchSize int,
) *AnalyzeFolderUseCase {
	if batchSize <= 0 {
		batchSize = 16
	}
	return &AnalyzeFolderUseCase{
		walker:     walker,
		detector:   detector,
		extractor:  extractor,
		classifier: classifier,
		store:      store,
		batchSize:  batchSize,
		now:        time.Now,
	}
}

func (uc *AnalyzeFolderUseCase) Analyze(ctx context.Context, folderPath string) (*domain.FolderAnalysis, error) {
	tree, err := uc.walker.Walk(ctx, folderPath)
	if err != nil {
		return nil, fmt.Errorf("walk folder tree: %w", err)
	}

	scan := uc.processFolder(ctx, tree, nil)

	if err := uc.store.SaveScan(ctx, scan); err != nil {
		return nil, fmt.Errorf("persist scan: %w", err)
	}

	report := BuildAnalysis(scan.AllDocuments(), uc.now())
	return &report, nil
}

// processFolder turns one walked directory into a FolderScan. Files of the
// current folder are processed concurrently up to the batch size; recursion
// into subfolders is sequential after the batch completes.
func (uc *AnalyzeFolderUseCase) processFolder(ctx context.Context, node *ports.WalkedFolder, parentID *string) *domain.FolderScan {
	now := uc.now().UTC()
	scan := &domain.FolderScan{
		Folder: domain.Folder{
			ID:         uuid.NewString(),
			Name:       node.Name,
			Path:       node.Path,
			ParentID:   parentID,
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}

	scan.Documents = make([]domain.Document, len(node.Files))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(uc.batchSize)
	for i, file := range node.Files {
		i, file := i, file
		g.Go(func() error {
			scan.Documents[i] = uc.processFile(groupCtx, file)
			return nil
		})
	}
	// Workers contain their own failures, so Wait only observes ctx errors.
	_ = g.Wait()

	for _, sub := range node.Subfolders {
		scan.Subfolders = append(scan.Subfolders, uc.processFolder(ctx, sub, &scan.Folder.ID))
	}
	return scan
}

// processFile never fails: every enumerated file yields a Document. An
// unreadable file is recorded with status=error, nil content and the
// default classification, and still counts toward the folder totals.
func (uc *AnalyzeFolderUseCase) processFile(ctx context.Context, file ports.FileEntry) domain.Document {
	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   file.Name,
		Path:       file.Path,
		Size:       file.Size,
		CreatedAt:  file.CreatedAt,
		ModifiedAt: file.ModifiedAt,
		Status:     domain.StatusPending,
		Metadata: map[string]string{
			"extension": filepath.Ext(file.Name),
		},
	}

	doc.Status = domain.StatusProcessing
	doc.Type = uc.detector.Detect(file.Path)

	text, err := uc.extractor.Extract(ctx, file.Path, doc.Type)
	if err != nil {
		slog.Warn("text_extraction_failed", "path", file.Path, "error", err)
		doc.Metadata["error"] = err.Error()
		classification := domain.DefaultClassification()
		sentiment := domain.NeutralSentiment()
		doc.Classification = &classification
		doc.Sentiment = &sentiment
		doc.Status = domain.StatusError
		return doc
	}

	extracted := ""
	if text != nil {
		doc.Content = text
		extracted = *text
	}

	classification, sentiment := uc.classifier.Classify(ctx, extracted, file.Path)
	doc.Classification = &classification
	doc.Sentiment = &sentiment
	doc.Status = domain.StatusCompleted
	return doc
}
