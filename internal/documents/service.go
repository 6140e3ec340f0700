package documents

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvbuilder-backend/internal/cv"
)

// DefaultTitle is used when a document is created without a title.
const DefaultTitle = "Untitled CV"

// Service contains business logic for CV documents.
type Service struct {
	Repo Repo
}

// Create starts a fresh document for a user. All sections begin empty and
// incomplete.
func (s *Service) Create(ctx context.Context, userID, title string) (cv.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	now := time.Now().UTC()
	doc := cv.Normalize(nil)
	doc.ID = uuid.NewString()
	doc.UserID = userID
	doc.Title = title
	doc.Completion = cv.CompletionMap(doc)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.Repo.Create(ctx, doc); err != nil {
		return cv.Document{}, err
	}
	return doc, nil
}

// Get returns a normalized document by ID.
func (s *Service) Get(ctx context.Context, userID, documentID string) (cv.Document, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return cv.Document{}, err
	}
	return cv.Normalize(&doc), nil
}

// List returns the user's documents, newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]cv.Document, error) {
	docs, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]cv.Document, 0, len(docs))
	for i := range docs {
		out = append(out, cv.Normalize(&docs[i]))
	}
	return out, nil
}

// Rename sets a new title on a document.
func (s *Service) Rename(ctx context.Context, userID, documentID, title string) (cv.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return cv.Document{}, ErrInvalidInput
	}
	if err := s.Repo.UpdateTitle(ctx, userID, documentID, title, time.Now().UTC()); err != nil {
		return cv.Document{}, err
	}
	return s.Get(ctx, userID, documentID)
}

// Duplicate clones an existing document under a new ID with a "(Copy)" title
// suffix. Completion carries over since the content is identical.
func (s *Service) Duplicate(ctx context.Context, userID, documentID string) (cv.Document, error) {
	source, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return cv.Document{}, err
	}

	now := time.Now().UTC()
	copyDoc := source
	copyDoc.ID = uuid.NewString()
	copyDoc.Title = source.Title + " (Copy)"
	copyDoc.CreatedAt = now
	copyDoc.UpdatedAt = now

	if err := s.Repo.Create(ctx, copyDoc); err != nil {
		return cv.Document{}, err
	}
	return copyDoc, nil
}

// Delete removes a document entirely.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	return s.Repo.Delete(ctx, userID, documentID)
}

// UpdateSection validates and persists one section payload, then returns the
// refreshed document. Validation failures carry per-field messages.
func (s *Service) UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload) (cv.Document, error) {
	if fields := cv.ValidateSection(payload); !fields.Valid() {
		return cv.Document{}, &ValidationError{Fields: fields}
	}

	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return cv.Document{}, err
	}

	now := time.Now().UTC()
	doc.Apply(payload)
	doc = cv.Normalize(&doc)
	doc.Completion = cv.CompletionMap(doc)
	doc.UpdatedAt = now

	// The normalized payload is written back so stored data never carries
	// duplicate "current" flags.
	normalized, err := cv.PayloadOf(doc, payload.Kind())
	if err != nil {
		return cv.Document{}, err
	}
	if err := s.Repo.UpdateSection(ctx, userID, documentID, normalized, doc.Completion, now); err != nil {
		return cv.Document{}, err
	}
	return doc, nil
}
