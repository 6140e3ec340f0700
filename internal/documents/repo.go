package documents

import (
	"context"
	"time"

	"cvbuilder-backend/internal/cv"
)

// Repo defines persistence operations for CV documents.
type Repo interface {
	Create(ctx context.Context, doc cv.Document) error
	GetByID(ctx context.Context, userID, documentID string) (cv.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]cv.Document, error)
	UpdateTitle(ctx context.Context, userID, documentID, title string, updatedAt time.Time) error
	UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload, completion map[cv.Section]bool, updatedAt time.Time) error
	Delete(ctx context.Context, userID, documentID string) error
}
