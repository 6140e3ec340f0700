package exports

import (
	"context"
	"time"
)

// Repo defines persistence operations for export records.
type Repo interface {
	Create(ctx context.Context, exp Export) error
	GetByID(ctx context.Context, userID, exportID string) (Export, error)
	// GetForRender loads an export by ID alone; the worker has no user context.
	GetForRender(ctx context.Context, exportID string) (Export, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Export, error)
	MarkCompleted(ctx context.Context, exportID, storageKey, mimeType string, sizeBytes int64, completedAt time.Time) error
	MarkFailed(ctx context.Context, exportID, reason string, completedAt time.Time) error
}
