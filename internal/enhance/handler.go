package enhance

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
	"cvbuilder-backend/internal/usage"
)

// Quota meters enhancement calls per user. Nil means unlimited.
type Quota interface {
	Consume(ctx context.Context, userID string, n int) (usage.Usage, error)
}

// Handler exposes text enhancement over HTTP.
type Handler struct {
	Client Client
	Quota  Quota
}

// NewHandler constructs a Handler.
func NewHandler(client Client) *Handler {
	return &Handler{Client: client}
}

// RegisterRoutes attaches enhance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/enhance", h.enhance)
}

type enhanceRequest struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Role string `json:"role"`
}

type enhanceResponse struct {
	Text string `json:"text"`
}

func (h *Handler) enhance(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	kind := Kind(strings.TrimSpace(req.Kind))
	if !ValidKind(kind) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown enhancement kind", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	if h.Quota != nil {
		if _, err := h.Quota.Consume(c.Request.Context(), middleware.UserIDFromContext(c), 1); err != nil {
			if errors.Is(err, usage.ErrLimitReached) {
				respond.Error(c, http.StatusTooManyRequests, "limit_reached", "enhancement limit reached for this period", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check usage", nil)
			return
		}
	}

	text, err := h.Client.Enhance(c.Request.Context(), EnhanceInput{
		Kind: kind,
		Text: req.Text,
		Role: req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotImplemented):
			respond.Error(c, http.StatusNotImplemented, "not_supported", "enhancement is not configured", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			// The AI provider is an opaque collaborator; no retries.
			respond.Error(c, http.StatusBadGateway, "enhance_failed", "enhancement failed, please try again", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, enhanceResponse{Text: text})
}
