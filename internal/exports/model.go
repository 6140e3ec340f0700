package exports

import (
	"fmt"
	"strings"
	"time"
)

// Status tracks an export through the render pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Output formats an export can be requested in.
const (
	FormatPDF  = "pdf"
	FormatDocx = "docx"
)

// Export records one render of a document. The bytes live in the object
// store; the record carries the storage key.
type Export struct {
	ID          string
	UserID      string
	DocumentID  string
	Format      string
	Status      Status
	StorageKey  string
	MimeType    string
	SizeBytes   int64
	FailReason  string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// normalizeFormat maps a requested format to a canonical one. An empty
// request means PDF, which every document can render.
func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatDocx:
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

func mimeForFormat(format string) string {
	if format == FormatDocx {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

func extForFormat(format string) string {
	if format == FormatDocx {
		return ".docx"
	}
	return ".pdf"
}
