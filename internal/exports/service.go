package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/documents"
	"cvbuilder-backend/internal/queue"
	"cvbuilder-backend/internal/shared/metrics"
	"cvbuilder-backend/internal/shared/storage/object"
	"cvbuilder-backend/internal/shared/telemetry"
)

// Service contains business logic for exports. When a queue client is
// configured, renders run on the worker; otherwise they run inline.
type Service struct {
	Repo         Repo
	Docs         *documents.Service
	Store        object.ObjectStore
	Renderer     Renderer
	DocxRenderer Renderer
	Queue        queue.Client

	// checkFn overrides the output sanity check in tests. Nil means the
	// per-format validator.
	checkFn func([]byte) error
}

func (s *Service) check(format string, data []byte) error {
	if s.checkFn != nil {
		return s.checkFn(data)
	}
	if format == FormatDocx {
		return checkDocx(data)
	}
	return checkPDF(data)
}

func (s *Service) rendererFor(format string) (Renderer, error) {
	if format == FormatDocx {
		if s.DocxRenderer == nil {
			return nil, fmt.Errorf("%w: docx rendering is not configured", ErrInvalidInput)
		}
		return s.DocxRenderer, nil
	}
	return s.Renderer, nil
}

// Create starts an export for a document.
func (s *Service) Create(ctx context.Context, userID, documentID, format string) (Export, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return Export{}, err
	}

	doc, err := s.Docs.Get(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}

	exp := Export{
		ID:         uuid.NewString(),
		UserID:     userID,
		DocumentID: documentID,
		Format:     format,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, exp); err != nil {
		return Export{}, err
	}
	metrics.IncExportStarted()

	if s.Queue != nil {
		msg := queue.Message{
			ExportID:   exp.ID,
			RequestID:  uuid.NewString(),
			EnqueuedAt: exp.CreatedAt.Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			now := time.Now().UTC()
			_ = s.Repo.MarkFailed(ctx, exp.ID, "enqueue failed", now)
			return Export{}, fmt.Errorf("enqueue render job: %w", err)
		}
		telemetry.Info("export enqueued", map[string]any{"exportId": exp.ID, "documentId": documentID})
		return exp, nil
	}

	return s.render(ctx, exp, doc)
}

// ProcessJob renders a queued export. Called by the worker.
func (s *Service) ProcessJob(ctx context.Context, msg queue.Message) error {
	exp, err := s.Repo.GetForRender(ctx, msg.ExportID)
	if err != nil {
		return fmt.Errorf("load export %s: %w", msg.ExportID, err)
	}
	if exp.Status != StatusPending {
		// Redelivered message; the first delivery already settled it.
		return nil
	}

	doc, err := s.Docs.Get(ctx, exp.UserID, exp.DocumentID)
	if err != nil {
		now := time.Now().UTC()
		_ = s.Repo.MarkFailed(ctx, exp.ID, "document unavailable", now)
		return fmt.Errorf("load document %s: %w", exp.DocumentID, err)
	}

	_, err = s.render(ctx, exp, doc)
	return err
}

// Get returns an export record for a user.
func (s *Service) Get(ctx context.Context, userID, exportID string) (Export, error) {
	return s.Repo.GetByID(ctx, userID, exportID)
}

// List returns the user's exports newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Export, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Download opens the rendered file for a completed export.
func (s *Service) Download(ctx context.Context, userID, exportID string) (Export, io.ReadCloser, error) {
	exp, err := s.Repo.GetByID(ctx, userID, exportID)
	if err != nil {
		return Export{}, nil, err
	}
	if exp.Status != StatusCompleted || exp.StorageKey == "" {
		return Export{}, nil, ErrNotReady
	}
	body, err := s.Store.Open(ctx, exp.StorageKey)
	if err != nil {
		return Export{}, nil, err
	}
	return exp, body, nil
}

func (s *Service) render(ctx context.Context, exp Export, doc cv.Document) (Export, error) {
	startedAt := time.Now()
	renderer, err := s.rendererFor(exp.Format)
	if err != nil {
		now := time.Now().UTC()
		_ = s.Repo.MarkFailed(ctx, exp.ID, err.Error(), now)
		return Export{}, err
	}
	data, err := renderer.Render(ctx, doc)
	if err == nil {
		err = s.check(exp.Format, data)
	}
	if err != nil {
		now := time.Now().UTC()
		_ = s.Repo.MarkFailed(ctx, exp.ID, err.Error(), now)
		telemetry.Error("export render failed", map[string]any{"exportId": exp.ID, "error": err.Error()})
		metrics.IncExportFailed()
		metrics.ObserveRenderDurationMs(float64(time.Since(startedAt).Milliseconds()))
		return Export{}, ErrRenderFailed
	}

	fileName := exp.ID + extForFormat(exp.Format)
	mimeType := mimeForFormat(exp.Format)
	storageKey, size, _, err := s.Store.Save(ctx, exp.UserID, fileName, bytes.NewReader(data))
	if err != nil {
		now := time.Now().UTC()
		_ = s.Repo.MarkFailed(ctx, exp.ID, "storage write failed", now)
		metrics.IncExportFailed()
		return Export{}, err
	}

	now := time.Now().UTC()
	if err := s.Repo.MarkCompleted(ctx, exp.ID, storageKey, mimeType, size, now); err != nil {
		return Export{}, err
	}
	metrics.IncExportCompleted()
	metrics.ObserveRenderDurationMs(float64(time.Since(startedAt).Milliseconds()))

	exp.Status = StatusCompleted
	exp.StorageKey = storageKey
	exp.MimeType = mimeType
	exp.SizeBytes = size
	exp.CompletedAt = &now
	telemetry.Info("export completed", map[string]any{"exportId": exp.ID, "sizeBytes": size})
	return exp, nil
}
