package exports

import "time"

// ExportResponse is the outward-facing representation of an export.
type ExportResponse struct {
	ExportID    string     `json:"exportId"`
	DocumentID  string     `json:"documentId"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	SizeBytes   int64      `json:"sizeBytes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func toResponse(exp Export) ExportResponse {
	return ExportResponse{
		ExportID:    exp.ID,
		DocumentID:  exp.DocumentID,
		Format:      exp.Format,
		Status:      string(exp.Status),
		SizeBytes:   exp.SizeBytes,
		CreatedAt:   exp.CreatedAt,
		CompletedAt: exp.CompletedAt,
	}
}

func toResponses(exps []Export) []ExportResponse {
	out := make([]ExportResponse, 0, len(exps))
	for _, exp := range exps {
		out = append(out, toResponse(exp))
	}
	return out
}
