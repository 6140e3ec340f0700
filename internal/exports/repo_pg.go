package exports

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const exportColumns = `id, user_id, document_id, format, status, storage_key, mime_type, size_bytes, fail_reason, created_at, completed_at`

// Create inserts a new export record.
func (r *PGRepo) Create(ctx context.Context, exp Export) error {
	const query = `
INSERT INTO exports (
    id,
    user_id,
    document_id,
    format,
    status,
    storage_key,
    mime_type,
    size_bytes,
    fail_reason,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var storageKey sql.NullString
	if exp.StorageKey != "" {
		storageKey = sql.NullString{String: exp.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		exp.ID,
		exp.UserID,
		exp.DocumentID,
		exp.Format,
		exp.Status,
		storageKey,
		exp.MimeType,
		exp.SizeBytes,
		exp.FailReason,
		exp.CreatedAt,
	)
	return err
}

// GetByID fetches an export for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, exportID string) (Export, error) {
	const query = `
SELECT ` + exportColumns + `
FROM exports
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, exportID))
}

// GetForRender fetches an export by ID alone.
func (r *PGRepo) GetForRender(ctx context.Context, exportID string) (Export, error) {
	const query = `
SELECT ` + exportColumns + `
FROM exports
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, exportID))
}

// ListByUser lists exports ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Export, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + exportColumns + `
FROM exports
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		exp, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

// ClaimGuest reassigns a guest's exports to the signed-in user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE exports
SET user_id = $1
WHERE user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// MarkCompleted records a successful render.
func (r *PGRepo) MarkCompleted(ctx context.Context, exportID, storageKey, mimeType string, sizeBytes int64, completedAt time.Time) error {
	const query = `
UPDATE exports
SET status = $1, storage_key = $2, mime_type = $3, size_bytes = $4, fail_reason = '', completed_at = $5
WHERE id = $6`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, storageKey, mimeType, sizeBytes, completedAt, exportID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFailed records a failed render.
func (r *PGRepo) MarkFailed(ctx context.Context, exportID, reason string, completedAt time.Time) error {
	const query = `
UPDATE exports
SET status = $1, fail_reason = $2, completed_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, reason, completedAt, exportID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row *sql.Row) (Export, error) {
	exp, err := scanExport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	return exp, nil
}

func scanExport(row rowScanner) (Export, error) {
	var exp Export
	var storageKey sql.NullString
	var mimeType sql.NullString
	var failReason sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(
		&exp.ID,
		&exp.UserID,
		&exp.DocumentID,
		&exp.Format,
		&exp.Status,
		&storageKey,
		&mimeType,
		&exp.SizeBytes,
		&failReason,
		&exp.CreatedAt,
		&completedAt,
	); err != nil {
		return Export{}, err
	}
	if storageKey.Valid {
		exp.StorageKey = storageKey.String
	}
	if mimeType.Valid {
		exp.MimeType = mimeType.String
	}
	if failReason.Valid {
		exp.FailReason = failReason.String
	}
	if completedAt.Valid {
		exp.CompletedAt = &completedAt.Time
	}
	return exp, nil
}

var _ Repo = (*PGRepo)(nil)
