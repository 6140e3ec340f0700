package exports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMock(t)

	exp := Export{
		ID:         "exp-1",
		UserID:     "user-1",
		DocumentID: "doc-1",
		Format:     FormatPDF,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO exports").
		WithArgs(
			exp.ID,
			exp.UserID,
			exp.DocumentID,
			exp.Format,
			exp.Status,
			nil, // storage_key
			exp.MimeType,
			exp.SizeBytes,
			exp.FailReason,
			exp.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), exp); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkCompleted(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE exports").
		WithArgs(StatusCompleted, "key-1", "application/pdf", int64(1234), now, "exp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkCompleted(context.Background(), "exp-1", "key-1", "application/pdf", 1234, now); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedMissingRow(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE exports").
		WithArgs(StatusFailed, "reason", now, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkFailed(context.Background(), "missing", "reason", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDScans(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_id", "format", "status", "storage_key",
		"mime_type", "size_bytes", "fail_reason", "created_at", "completed_at",
	}).AddRow("exp-1", "user-1", "doc-1", "pdf", "completed", "key-1", "application/pdf", int64(1234), "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM exports").
		WithArgs("user-1", "exp-1").
		WillReturnRows(rows)

	exp, err := repo.GetByID(context.Background(), "user-1", "exp-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if exp.Status != StatusCompleted || exp.StorageKey != "key-1" {
		t.Fatalf("unexpected export %+v", exp)
	}
	if exp.CompletedAt == nil {
		t.Fatal("expected completed_at to be scanned")
	}
}
