package exports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"cvbuilder-backend/internal/cv"
)

// Renderer turns a normalized document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc cv.Document) ([]byte, error)
}

// checkPDF validates rendered bytes before they are stored. A backend that
// returns a 200 with an HTML error page must not produce a "completed" export.
func checkPDF(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty render output")
	}
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("render output is not a valid PDF: %w", err)
	}
	return nil
}
