package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/middleware"
)

func TestOwnerValidIdentity(t *testing.T) {
	id := uuid.New()

	var got uuid.UUID
	var ok bool
	handler := middleware.Owner()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = middleware.OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.OwnerHeader, id.String())
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("identity should be present in context")
	}
	if got != id {
		t.Errorf("identity: got %s, want %s", got, id)
	}
}

func TestOwnerMissingHeader(t *testing.T) {
	var handlerCalled bool
	handler := middleware.Owner()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if handlerCalled {
		t.Error("handler should not be called without an identity")
	}
}

func TestOwnerMalformedHeader(t *testing.T) {
	handler := middleware.Owner()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.OwnerHeader, "not-a-uuid")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestOwnerFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := middleware.OwnerFromContext(req.Context()); ok {
		t.Error("identity should be absent from a bare context")
	}
}
