package documents

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
)

const maxImportSize = 10 << 20 // 10MB

// Importer turns uploaded files or raw JSON into a draft document.
type Importer interface {
	ImportPDF(ctx context.Context, userID, fileName string, r io.Reader) (cv.Document, error)
	ImportJSON(ctx context.Context, userID string, raw []byte) (cv.Document, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Importer Importer
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, importer Importer) *Handler {
	return &Handler{Svc: svc, Importer: importer}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PATCH("/documents/:id", h.rename)
	rg.DELETE("/documents/:id", h.delete)
	rg.POST("/documents/:id/duplicate", h.duplicate)
	rg.PUT("/documents/:id/sections/:section", h.updateSection)
	rg.POST("/documents/import", h.importPDF)
	rg.POST("/documents/import-json", h.importJSON)
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	// Body is optional; a missing or invalid body falls back to the default title.
	var req createRequest
	_ = c.ShouldBindJSON(&req)

	doc, err := h.Svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create document", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toSummaries(docs))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("id"), req.Title)
	if err != nil {
		h.respondError(c, err, "failed to rename document")
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) duplicate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Duplicate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to duplicate document")
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) updateSection(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	section, err := cv.ParseSection(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", nil)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}

	payload, err := cv.DecodePayload(section, raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid section payload", nil)
		return
	}

	doc, err := h.Svc.UpdateSection(c.Request.Context(), userID, c.Param("id"), payload)
	if err != nil {
		h.respondError(c, err, "failed to save section")
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) importPDF(c *gin.Context) {
	if h.Importer == nil {
		respond.Error(c, http.StatusNotImplemented, "not_supported", "import is not configured", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Importer.ImportPDF(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		h.respondError(c, err, "failed to import document")
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) importJSON(c *gin.Context) {
	if h.Importer == nil {
		respond.Error(c, http.StatusNotImplemented, "not_supported", "import is not configured", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}

	doc, err := h.Importer.ImportJSON(c.Request.Context(), userID, raw)
	if err != nil {
		h.respondError(c, err, "failed to import document")
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "section contains invalid fields", valErr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
