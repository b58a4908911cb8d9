package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
)

func TestAPIPrefixEnforced(t *testing.T) {
	s := NewServer(logr.Discard(), 0)

	// Unversioned path should 404
	req := httptest.NewRequest(http.MethodPost, "/solve", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unversioned path, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 for healthz, got %d", rec2.Code)
	}
	if body := rec2.Body.String(); body != `{"status":"ok"}` {
		t.Fatalf("unexpected healthz body %q", body)
	}
}
