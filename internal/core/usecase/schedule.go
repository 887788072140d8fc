package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
)

// ScheduleScanUseCase enqueues folder scans for the worker instead of
// running them on the request path.
type ScheduleScanUseCase struct {
	queue ports.ScanQueue
}

func NewScheduleScanUseCase(queue ports.ScanQueue) *ScheduleScanUseCase {
	return &ScheduleScanUseCase{queue: queue}
}

func (uc *ScheduleScanUseCase) Schedule(ctx context.Context, folderPath string) (string, error) {
	if strings.TrimSpace(folderPath) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "schedule scan", fmt.Errorf("folder path is required"))
	}
	job := domain.ScanJob{ID: uuid.NewString(), Path: folderPath}
	if err := uc.queue.PublishScanRequested(ctx, job); err != nil {
		return "", fmt.Errorf("publish scan job: %w", err)
	}
	return job.ID, nil
}
