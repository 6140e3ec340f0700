package exports

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cvbuilder-backend/internal/cv"
)

func TestLaTeXClientRendersDocument(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 rendered"))
	}))
	t.Cleanup(srv.Close)

	client, err := NewLaTeXClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewLaTeXClient: %v", err)
	}

	doc := cv.Document{Title: "CV", Personal: cv.PersonalInfo{FirstName: "Jane"}}
	data, err := client.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(data) != "%PDF-1.4 rendered" {
		t.Fatalf("unexpected body %q", data)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected JSON request, got %q", gotContentType)
	}
	if len(gotBody) == 0 {
		t.Fatal("expected document JSON in request body")
	}
}

func TestLaTeXClientNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "compile error", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewLaTeXClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewLaTeXClient: %v", err)
	}

	_, err = client.Render(context.Background(), cv.Document{})
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
}

func TestLaTeXClientRequiresURL(t *testing.T) {
	if _, err := NewLaTeXClient("  ", 0); err == nil {
		t.Fatal("expected error for empty URL")
	}
}
