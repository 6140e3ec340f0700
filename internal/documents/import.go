package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/extract"
	"cvbuilder-backend/internal/shared/storage/object"
)

// ImportService builds draft documents from uploaded files or exported JSON.
// The original upload is kept in object storage so users can re-import or
// audit what was parsed.
type ImportService struct {
	Svc   *Service
	Store object.ObjectStore
}

// ImportPDF extracts text from an uploaded PDF or DOCX and creates a draft
// document carrying the text as the personal summary. Parsing into structured
// sections is left to the user in the wizard.
func (s *ImportService) ImportPDF(ctx context.Context, userID, fileName string, r io.Reader) (cv.Document, error) {
	if fileName == "" {
		return cv.Document{}, ErrInvalidInput
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return cv.Document{}, err
	}

	if s.Store != nil {
		if _, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(raw)); err != nil {
			return cv.Document{}, err
		}
	}

	text, err := extract.ExtractTextFromBytes(ctx, raw, "", fileName)
	if err != nil {
		return cv.Document{}, ErrInvalidInput
	}

	title := strings.TrimSuffix(fileName, extensionOf(fileName))
	doc, err := s.Svc.Create(ctx, userID, title)
	if err != nil {
		return cv.Document{}, err
	}

	personal := cv.PersonalPayload{Summary: summarize(text)}
	now := time.Now().UTC()
	doc.Apply(personal)
	doc.Completion = cv.CompletionMap(doc)
	doc.UpdatedAt = now
	if err := s.Svc.Repo.UpdateSection(ctx, userID, doc.ID, personal, doc.Completion, now); err != nil {
		return cv.Document{}, err
	}
	return doc, nil
}

// importSchema constrains full-document JSON imports. Sections not present in
// the import stay empty.
const importSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "personal": {
      "type": "object",
      "properties": {
        "firstName": {"type": "string"},
        "lastName": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "location": {"type": "string"},
        "summary": {"type": "string"},
        "website": {"type": "string"},
        "linkedin": {"type": "string"},
        "github": {"type": "string"}
      },
      "additionalProperties": false
    },
    "education": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "experience": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "projects": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "skills": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": false,
  "definitions": {
    "entry": {
      "type": "object",
      "properties": {
        "school": {"type": "string"},
        "degree": {"type": "string"},
        "field": {"type": "string"},
        "company": {"type": "string"},
        "role": {"type": "string"},
        "name": {"type": "string"},
        "link": {"type": "string"},
        "startDate": {"type": "string"},
        "endDate": {"type": "string"},
        "current": {"type": "boolean"},
        "location": {"type": "string"},
        "description": {
          "anyOf": [
            {"type": "string"},
            {"type": "array", "items": {"type": "string"}}
          ]
        }
      },
      "additionalProperties": false
    }
  }
}`

var importSchemaLoader = gojsonschema.NewStringLoader(importSchema)

// ImportJSON validates an exported document body against the import schema
// and assembles it into a new stored document.
func (s *ImportService) ImportJSON(ctx context.Context, userID string, raw []byte) (cv.Document, error) {
	result, err := gojsonschema.Validate(importSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return cv.Document{}, ErrInvalidInput
	}
	if !result.Valid() {
		fields := make(cv.FieldErrors, len(result.Errors()))
		for _, desc := range result.Errors() {
			fields[desc.Field()] = desc.Description()
		}
		return cv.Document{}, &ValidationError{Fields: fields}
	}

	var imported cv.Document
	if err := json.Unmarshal(raw, &imported); err != nil {
		return cv.Document{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	doc := cv.Normalize(&imported)
	doc.ID = uuid.NewString()
	doc.UserID = userID
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = DefaultTitle
	}
	doc.Completion = cv.CompletionMap(doc)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.Svc.Repo.Create(ctx, doc); err != nil {
		return cv.Document{}, err
	}
	return doc, nil
}

// summarize trims extracted text to a summary-sized snippet.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	const maxLen = 2000
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

func extensionOf(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		return fileName[i:]
	}
	return ""
}

var _ Importer = (*ImportService)(nil)
