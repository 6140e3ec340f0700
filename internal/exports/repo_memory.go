package exports

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Export // exportID -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Export)}
}

// Create stores a new export record.
func (r *MemoryRepo) Create(ctx context.Context, exp Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[exp.ID] = exp
	return nil
}

// GetByID returns an export for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.data[exportID]
	if !ok || exp.UserID != userID {
		return Export{}, ErrNotFound
	}
	return exp, nil
}

// GetForRender returns an export by ID alone.
func (r *MemoryRepo) GetForRender(ctx context.Context, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.data[exportID]
	if !ok {
		return Export{}, ErrNotFound
	}
	return exp, nil
}

// ListByUser returns the user's exports newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Export
	for _, exp := range r.data {
		if exp.UserID == userID {
			out = append(out, exp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Export{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// ClaimGuest reassigns a guest's exports to the signed-in user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := 0
	for id, exp := range r.data {
		if exp.UserID == guestUserID {
			exp.UserID = authedUserID
			r.data[id] = exp
			moved++
		}
	}
	return moved, nil
}

// MarkCompleted records a successful render.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, exportID, storageKey, mimeType string, sizeBytes int64, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.data[exportID]
	if !ok {
		return ErrNotFound
	}
	exp.Status = StatusCompleted
	exp.StorageKey = storageKey
	exp.MimeType = mimeType
	exp.SizeBytes = sizeBytes
	exp.CompletedAt = &completedAt
	exp.FailReason = ""
	r.data[exportID] = exp
	return nil
}

// MarkFailed records a failed render.
func (r *MemoryRepo) MarkFailed(ctx context.Context, exportID, reason string, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.data[exportID]
	if !ok {
		return ErrNotFound
	}
	exp.Status = StatusFailed
	exp.FailReason = reason
	exp.CompletedAt = &completedAt
	r.data[exportID] = exp
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
