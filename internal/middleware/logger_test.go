package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDGenerated(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestIDFrom(r) == "" {
			t.Error("request ID missing from context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	id := rec.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-Id %q is not a valid UUID: %v", id, err)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	want := uuid.New().String()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := requestIDFrom(r); got != want {
			t.Errorf("context request ID = %q, want %q", got, want)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", want)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != want {
		t.Errorf("X-Request-Id = %q, want %q", got, want)
	}
}

func TestRequestIDRejectsGarbageHeader(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	id := rec.Header().Get("X-Request-Id")
	if id == "not-a-uuid" {
		t.Error("garbage X-Request-Id echoed back instead of being replaced")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("replacement X-Request-Id %q is not a valid UUID: %v", id, err)
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // second call must not overwrite

	if rw.Status() != http.StatusTeapot {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusTeapot)
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.Write([]byte("hello"))

	if rw.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusOK)
	}
}
