package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
)

// DocumentSource loads stored documents for wizard sessions.
type DocumentSource interface {
	Get(ctx context.Context, userID, documentID string) (cv.Document, error)
}

// ErrDocumentNotFound is returned by DocumentSource implementations when the
// document does not exist for the user.
var ErrDocumentNotFound = errors.New("document not found")

// Handler exposes the server-driven wizard over HTTP.
type Handler struct {
	Sessions  *Manager
	Docs      DocumentSource
	Persister SectionPersister
	Opts      Options
}

// NewHandler constructs a wizard Handler.
func NewHandler(sessions *Manager, docs DocumentSource, persister SectionPersister, opts Options) *Handler {
	return &Handler{Sessions: sessions, Docs: docs, Persister: persister, Opts: opts}
}

// RegisterRoutes attaches wizard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/wizard", h.open)
	rg.GET("/documents/:id/wizard", h.state)
	rg.PUT("/documents/:id/wizard/fields", h.edit)
	rg.POST("/documents/:id/wizard/next", h.next)
	rg.POST("/documents/:id/wizard/back", h.back)
	rg.POST("/documents/:id/wizard/save", h.save)
	rg.POST("/documents/:id/wizard/refresh", h.refresh)
	rg.DELETE("/documents/:id/wizard", h.close)
}

func (h *Handler) open(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	docID := c.Param("id")

	doc, err := h.Docs.Get(c.Request.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}

	w, err := Open(doc, userID, h.Persister, h.Opts)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open wizard", nil)
		return
	}
	h.Sessions.Put(userID, docID, w)
	respond.JSON(c, http.StatusCreated, w.View())
}

func (h *Handler) state(c *gin.Context) {
	h.withSession(c, func(w *Wizard) error { return nil })
}

type editRequest struct {
	Section string          `json:"section"`
	Values  json.RawMessage `json:"values"`
}

func (h *Handler) edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	section, err := cv.ParseSection(req.Section)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", nil)
		return
	}

	payload, err := cv.DecodePayload(section, req.Values)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid section payload", nil)
		return
	}

	h.withSession(c, func(w *Wizard) error {
		return w.Edit(payload)
	})
}

func (h *Handler) next(c *gin.Context) {
	h.withSession(c, func(w *Wizard) error {
		return w.Next(c.Request.Context())
	})
}

func (h *Handler) back(c *gin.Context) {
	h.withSession(c, func(w *Wizard) error {
		w.Back()
		return nil
	})
}

func (h *Handler) save(c *gin.Context) {
	h.withSession(c, func(w *Wizard) error {
		return w.SaveChanges(c.Request.Context())
	})
}

func (h *Handler) refresh(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	docID := c.Param("id")

	doc, err := h.Docs.Get(c.Request.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}

	h.withSession(c, func(w *Wizard) error {
		return w.Reconcile(doc)
	})
}

func (h *Handler) close(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	docID := c.Param("id")
	h.Sessions.Close(userID, docID)
	c.Status(http.StatusNoContent)
}

// withSession runs fn under the session lock and writes the resulting wizard
// view (or a mapped error) to the response.
func (h *Handler) withSession(c *gin.Context, fn func(w *Wizard) error) {
	userID := middleware.UserIDFromContext(c)
	docID := c.Param("id")

	session, ok := h.Sessions.Get(userID, docID)
	if !ok {
		respond.Error(c, http.StatusNotFound, "no_session", "no wizard session open for this document", nil)
		return
	}

	var view WizardView
	err := session.With(func(w *Wizard) error {
		if err := fn(w); err != nil {
			return err
		}
		view = w.View()
		return nil
	})
	if err != nil {
		h.respondWizardError(c, session, err)
		return
	}
	respond.JSON(c, http.StatusOK, view)
}

func (h *Handler) respondWizardError(c *gin.Context, session *Session, err error) {
	var persistErr *PersistenceError
	switch {
	case errors.Is(err, ErrSubmitDisabled):
		respond.Error(c, http.StatusConflict, "submit_disabled", "section cannot be submitted in its current state", currentView(session))
	case errors.Is(err, ErrPersistPending):
		respond.Error(c, http.StatusConflict, "persist_pending", "a save is already in progress for this section", nil)
	case errors.Is(err, ErrSectionMismatch):
		respond.Error(c, http.StatusBadRequest, "validation_error", "payload does not match the active section", nil)
	case errors.As(err, &persistErr):
		// Edits stay intact; the failure surfaces without retry.
		respond.Error(c, http.StatusBadGateway, "persist_failed", "failed to save section, your changes are preserved", currentView(session))
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "wizard operation failed", nil)
	}
}

func currentView(session *Session) any {
	var view WizardView
	_ = session.With(func(w *Wizard) error {
		view = w.View()
		return nil
	})
	return view
}
