package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/documents"
	"cvbuilder-backend/internal/exports"
)

func newClaimRouter(docRepo documents.Repo, exportRepo exports.Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(docRepo, exportRepo))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesData(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	exportRepo := exports.NewMemoryRepo()
	router := newClaimRouter(docRepo, exportRepo)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID

	doc := cv.Normalize(nil)
	doc.ID = "doc-1"
	doc.UserID = guestUserID
	doc.Title = "Untitled CV"
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	exp := exports.Export{
		ID:         "export-1",
		UserID:     guestUserID,
		DocumentID: doc.ID,
		Status:     exports.StatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}
	if err := exportRepo.Create(context.Background(), exp); err != nil {
		t.Fatalf("create export: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	docs, err := docRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 migrated doc, got %d", len(docs))
	}

	exportsList, err := exportRepo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list exports: %v", err)
	}
	if len(exportsList) != 1 {
		t.Fatalf("expected 1 migrated export, got %d", len(exportsList))
	}
}

func TestClaimGuestIdempotentAndIsolated(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	exportRepo := exports.NewMemoryRepo()
	router := newClaimRouter(docRepo, exportRepo)

	guestID := "22222222-2222-2222-2222-222222222222"
	guestUserID := "guest:" + guestID

	doc := cv.Normalize(nil)
	doc.ID = "doc-2"
	doc.UserID = guestUserID
	doc.Title = "Untitled CV"
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req2.Header.Set("X-Guest-Id", guestID)
	resp2 := httptest.NewRecorder()
	router.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on idempotent call, got %d", resp2.Code)
	}

	docs, err := docRepo.ListByUser(context.Background(), "user-2", 10, 0)
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no docs for other user, got %d", len(docs))
	}
}
