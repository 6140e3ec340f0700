package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cvbuilder-backend/internal/cv"
)

const maxRenderResponseSize = 32 << 20 // 32MB

// LaTeXClient renders documents through the external LaTeX render service.
// The service accepts the document JSON and answers with application/pdf.
type LaTeXClient struct {
	renderURL  string
	httpClient *http.Client
}

// NewLaTeXClient constructs a render client for the given service URL.
func NewLaTeXClient(renderURL string, timeout time.Duration) (*LaTeXClient, error) {
	if strings.TrimSpace(renderURL) == "" {
		return nil, fmt.Errorf("render service URL is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LaTeXClient{
		renderURL: renderURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Render posts the document to the render service and returns the PDF bytes.
// Failures carry a generic message; the render service is an opaque
// collaborator and its errors are not retried here.
func (c *LaTeXClient) Render(ctx context.Context, doc cv.Document) ([]byte, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.renderURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("render request timeout: %w", ErrRenderFailed)
		}
		return nil, fmt.Errorf("render request: %w", ErrRenderFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRenderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("render response read: %w", ErrRenderFailed)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render service status %d: %w", resp.StatusCode, ErrRenderFailed)
	}
	return body, nil
}

var _ Renderer = (*LaTeXClient)(nil)
