package documents

import (
	"errors"
	"fmt"

	"cvbuilder-backend/internal/cv"
)

// ErrNotFound indicates the document does not exist for the user.
var ErrNotFound = errors.New("document not found")

// ErrInvalidInput indicates the request was malformed or missing data.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries per-field messages from a failed section save.
type ValidationError struct {
	Fields cv.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section validation failed (%d fields)", len(e.Fields))
}
