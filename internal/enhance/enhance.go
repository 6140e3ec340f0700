package enhance

import (
	"context"
	"errors"
)

// Kind selects the enhancement prompt.
type Kind string

const (
	KindSummary Kind = "summary"
	KindBullet  Kind = "bullet"
	KindSkills  Kind = "skills"
)

// EnhanceInput captures the inputs for one enhancement request.
type EnhanceInput struct {
	Kind Kind
	Text string
	Role string
}

// Client abstracts AI providers for text enhancement.
type Client interface {
	Enhance(ctx context.Context, input EnhanceInput) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("enhancement not implemented")

// ErrInvalidInput indicates a bad kind or empty text.
var ErrInvalidInput = errors.New("invalid input")

// PlaceholderClient is a stub implementation used when no provider is
// configured.
type PlaceholderClient struct{}

// Enhance returns ErrNotImplemented.
func (PlaceholderClient) Enhance(ctx context.Context, input EnhanceInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}

// ValidKind reports whether k is a known enhancement kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindSummary, KindBullet, KindSkills:
		return true
	}
	return false
}
