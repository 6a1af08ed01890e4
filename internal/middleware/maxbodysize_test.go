package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tagcal/internal/middleware"
)

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 100

	tests := []struct {
		name          string
		size          int
		contentLength int64 // -1 streams the body without a declared length
		wantStatus    int
		wantReached   bool
	}{
		{"within limit", 50, 50, http.StatusOK, true},
		{"exactly at limit", limit, limit, http.StatusOK, true},
		{"declared length over limit", 200, 200, http.StatusRequestEntityTooLarge, false},
		{"streamed body over limit", 200, -1, http.StatusRequestEntityTooLarge, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				_, err := io.ReadAll(r.Body)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			h := middleware.NewMaxBodySizeHandler(limit)(next)

			req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(strings.Repeat("x", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}

func TestMaxBodySizeHandler_rejectionBody(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(10)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/tags", strings.NewReader(strings.Repeat("x", 20)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"code":"payload_too_large","message":"request body too large"}}`, rec.Body.String())
}
