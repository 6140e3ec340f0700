package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cvbuilder-backend/internal/cv"
)

// PGRepo implements Repo using Postgres. Section content is stored as JSONB,
// one column per section, so a section save touches only its own column.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, title, personal, education, experience, projects, skills, completion, created_at, updated_at`

// Create inserts a new document with all sections.
func (r *PGRepo) Create(ctx context.Context, doc cv.Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    title,
    personal,
    education,
    experience,
    projects,
    skills,
    completion,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	cols, err := marshalSections(doc)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Title,
		cols.personal,
		cols.education,
		cols.experience,
		cols.projects,
		cols.skills,
		cols.completion,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (cv.Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cv.Document{}, ErrNotFound
		}
		return cv.Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered by most recent update.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]cv.Document, error) {
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
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cv.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateTitle renames a document.
func (r *PGRepo) UpdateTitle(ctx context.Context, userID, documentID, title string, updatedAt time.Time) error {
	const query = `
UPDATE documents
SET title = $1, updated_at = $2
WHERE user_id = $3 AND id = $4 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, title, updatedAt, userID, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateSection writes one section column and the refreshed completion map.
// The query per section is fixed; payload kind selects which column moves.
func (r *PGRepo) UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload, completion map[cv.Section]bool, updatedAt time.Time) error {
	column, ok := sectionColumn(payload.Kind())
	if !ok {
		return fmt.Errorf("no column for section %q", payload.Kind())
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	completionJSON, err := json.Marshal(completionNames(completion))
	if err != nil {
		return err
	}

	query := `
UPDATE documents
SET ` + column + ` = $1, completion = $2, updated_at = $3
WHERE user_id = $4 AND id = $5 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, body, completionJSON, updatedAt, userID, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClaimGuest reassigns a guest's documents to the signed-in user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE documents
SET user_id = $1
WHERE user_id = $2 AND deleted_at IS NULL`
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

// Delete soft-deletes a document.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `
UPDATE documents
SET deleted_at = NOW()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func sectionColumn(s cv.Section) (string, bool) {
	switch s {
	case cv.SectionPersonal:
		return "personal", true
	case cv.SectionEducation:
		return "education", true
	case cv.SectionExperience:
		return "experience", true
	case cv.SectionProjects:
		return "projects", true
	case cv.SectionSkills:
		return "skills", true
	}
	return "", false
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

type sectionColumnsJSON struct {
	personal   []byte
	education  []byte
	experience []byte
	projects   []byte
	skills     []byte
	completion []byte
}

func marshalSections(doc cv.Document) (sectionColumnsJSON, error) {
	var cols sectionColumnsJSON
	var err error
	if cols.personal, err = json.Marshal(doc.Personal); err != nil {
		return cols, err
	}
	if cols.education, err = json.Marshal(doc.Education); err != nil {
		return cols, err
	}
	if cols.experience, err = json.Marshal(doc.Experience); err != nil {
		return cols, err
	}
	if cols.projects, err = json.Marshal(doc.Projects); err != nil {
		return cols, err
	}
	if cols.skills, err = json.Marshal(doc.Skills); err != nil {
		return cols, err
	}
	if cols.completion, err = json.Marshal(completionNames(doc.Completion)); err != nil {
		return cols, err
	}
	return cols, nil
}

// completionNames converts the completion map to string keys for storage.
func completionNames(completion map[cv.Section]bool) map[string]bool {
	out := make(map[string]bool, len(completion))
	for s, done := range completion {
		out[string(s)] = done
	}
	return out
}

func parseCompletion(raw []byte) (map[cv.Section]bool, error) {
	if len(raw) == 0 {
		return map[cv.Section]bool{}, nil
	}
	var named map[string]bool
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, err
	}
	out := make(map[cv.Section]bool, len(named))
	for name, done := range named {
		section, err := cv.ParseSection(name)
		if err != nil {
			continue // unknown keys from older rows are dropped
		}
		out[section] = done
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (cv.Document, error) {
	var doc cv.Document
	var personal, education, experience, projects, skills, completion []byte
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&personal,
		&education,
		&experience,
		&projects,
		&skills,
		&completion,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return cv.Document{}, err
	}

	if len(personal) > 0 {
		if err := json.Unmarshal(personal, &doc.Personal); err != nil {
			return cv.Document{}, err
		}
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &doc.Education); err != nil {
			return cv.Document{}, err
		}
	}
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &doc.Experience); err != nil {
			return cv.Document{}, err
		}
	}
	if len(projects) > 0 {
		if err := json.Unmarshal(projects, &doc.Projects); err != nil {
			return cv.Document{}, err
		}
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &doc.Skills); err != nil {
			return cv.Document{}, err
		}
	}
	parsed, err := parseCompletion(completion)
	if err != nil {
		return cv.Document{}, err
	}
	doc.Completion = parsed
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
