package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"cvbuilder-backend/internal/cv"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev and tests
// when no database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]cv.Document // userID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]cv.Document)}
}

// Create stores a new document for a user.
func (r *MemoryRepo) Create(ctx context.Context, doc cv.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (cv.Document, error) {
	if err := ctx.Err(); err != nil {
		return cv.Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return cv.Document{}, ErrNotFound
}

// ListByUser returns documents newest-first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]cv.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userDocs := r.data[userID]
	r.mu.RUnlock()

	if len(userDocs) == 0 || offset >= len(userDocs) {
		return []cv.Document{}, nil
	}

	docs := make([]cv.Document, len(userDocs))
	copy(docs, userDocs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

// UpdateTitle renames a document.
func (r *MemoryRepo) UpdateTitle(ctx context.Context, userID, documentID, title string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Title = title
			docs[i].UpdatedAt = updatedAt
			r.data[userID] = docs
			return nil
		}
	}
	return ErrNotFound
}

// UpdateSection writes one section payload and the refreshed completion map.
func (r *MemoryRepo) UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload, completion map[cv.Section]bool, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Apply(payload)
			docs[i].Completion = completion
			docs[i].UpdatedAt = updatedAt
			r.data[userID] = docs
			return nil
		}
	}
	return ErrNotFound
}

// ClaimGuest reassigns all of a guest's documents to the signed-in user and
// returns how many moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[guestUserID]
	if len(docs) == 0 {
		return 0, nil
	}
	for i := range docs {
		docs[i].UserID = authedUserID
	}
	r.data[authedUserID] = append(r.data[authedUserID], docs...)
	delete(r.data, guestUserID)
	return len(docs), nil
}

// Delete removes the whole document. Documents are never partially deleted.
func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			r.data[userID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
