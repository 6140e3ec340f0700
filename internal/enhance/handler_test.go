package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/usage"
)

type fakeClient struct {
	text string
	err  error
	got  EnhanceInput
}

func (f *fakeClient) Enhance(ctx context.Context, input EnhanceInput) (string, error) {
	f.got = input
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestRouter(client Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(client).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestEnhanceReturnsText(t *testing.T) {
	client := &fakeClient{text: "Led a team of five engineers."}
	r := newTestRouter(client)

	body := `{"kind":"bullet","text":"was leader of 5 engineers","role":"Engineering Manager"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enhance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != client.text {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if client.got.Kind != KindBullet || client.got.Role != "Engineering Manager" {
		t.Fatalf("unexpected input %+v", client.got)
	}
}

func TestEnhanceUnknownKind(t *testing.T) {
	r := newTestRouter(&fakeClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enhance", strings.NewReader(`{"kind":"poem","text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEnhanceProviderErrorIs502(t *testing.T) {
	r := newTestRouter(&fakeClient{err: errors.New("provider down")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enhance", strings.NewReader(`{"kind":"summary","text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestEnhanceQuotaExhaustedIs429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	quota := usage.NewService()
	handler := NewHandler(&fakeClient{text: "better"})
	handler.Quota = quota

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	handler.RegisterRoutes(r.Group("/api/v1"))

	u, err := quota.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if _, err := quota.Consume(context.Background(), "user-1", u.Limit); err != nil {
		t.Fatalf("exhaust quota: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enhance", strings.NewReader(`{"kind":"summary","text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEnhancePlaceholderNotImplemented(t *testing.T) {
	r := newTestRouter(PlaceholderClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enhance", strings.NewReader(`{"kind":"summary","text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", w.Code)
	}
}
