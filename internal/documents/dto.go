package documents

import (
	"time"

	"cvbuilder-backend/internal/cv"
)

// DocumentSummary is the outward-facing list representation of a document.
// Section content is omitted; the dashboard only needs title and progress.
type DocumentSummary struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	Completion int       `json:"completionPercent"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toSummary(doc cv.Document) DocumentSummary {
	return DocumentSummary{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Completion: completionPercent(doc),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func toSummaries(docs []cv.Document) []DocumentSummary {
	out := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toSummary(doc))
	}
	return out
}

func completionPercent(doc cv.Document) int {
	sections := cv.Sections()
	if len(sections) == 0 {
		return 0
	}
	done := 0
	for _, s := range sections {
		if doc.Completion[s] {
			done++
		}
	}
	return done * 100 / len(sections)
}
