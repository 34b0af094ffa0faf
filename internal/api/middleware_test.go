package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgpai22/cueline/internal/logging"
)

func TestIsLoopbackRemoteAddr(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:8790", true},
		{"[::1]:8790", true},
		{"::1", true},
		{"127.0.0.1", true},
		{"192.168.1.4:5000", false},
		{"8.8.8.8:53", false},
		{"", false},
		{"garbage", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, isLoopbackRemoteAddr(tc.addr), "addr %q", tc.addr)
	}
}

func TestLoopbackGuardRejectsRemote(t *testing.T) {
	handler := LoopbackGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for non-loopback")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/media/stream", nil)
	req.RemoteAddr = "8.8.8.8:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assertErrorCode(t, rr, http.StatusForbidden, "FORBIDDEN")
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RequestIDMiddleware()(RecoveryMiddleware(logging.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assertErrorCode(t, rr, http.StatusInternalServerError, "INTERNAL_ERROR")
}

func TestRequestIDIsPropagated(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc123", seen)
	assert.Equal(t, "abc123", rr.Header().Get("X-Request-ID"))
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec, status: http.StatusOK}
	_, _ = w.Write([]byte("x"))
	w.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, w.status)
}
