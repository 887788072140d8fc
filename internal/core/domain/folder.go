package domain

import "time"

// Folder is one directory of a scanned tree. Path is globally unique;
// ParentID links folders into a tree with the scan root as the only
// parentless node.
type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	ParentID   *string   `json:"parent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FolderScan is the in-memory result of one traversal: the folder itself,
// its processed documents, and its subtrees. The walk producing it has no
// persistence side effects; the whole scan is stored in a single
// transaction afterwards.
type FolderScan struct {
	Folder     Folder
	Documents  []Document
	Subfolders []*FolderScan
}

// AllDocuments flattens the subtree depth-first.
func (s *FolderScan) AllDocuments() []Document {
	if s == nil {
		return nil
	}
	docs := make([]Document, 0, len(s.Documents))
	docs = append(docs, s.Documents...)
	for _, sub := range s.Subfolders {
		docs = append(docs, sub.AllDocuments()...)
	}
	return docs
}

// ScanJob is one queued scan request. The ID is minted when the job is
// scheduled and travels with it, so API receipts and worker logs line up.
type ScanJob struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// FolderAnalysis is the derived folder-level report. It is computed from
// document records, never persisted as its own entity.
type FolderAnalysis struct {
	TotalDocuments             int                    `json:"total_documents"`
	TotalSize                  int64                  `json:"total_size"`
	DocumentTypes              map[DocumentType]int   `json:"document_types"`
	ClassificationDistribution map[string]int         `json:"classification_distribution"`
	AverageSentiment           float64                `json:"average_sentiment"`
	SentimentDistribution      map[SentimentLabel]int `json:"sentiment_distribution"`
	AverageFileSize            float64                `json:"average_file_size"`
	LastModified               time.Time              `json:"last_modified"`
	Documents                  []Document             `json:"documents"`
}
