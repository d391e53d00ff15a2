package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestShouldLogBody(t *testing.T) {
	AddBodyLogPaths("/shapes/canonical", "  ")

	req := func(method, path, ct string) *http.Request {
		r := httptest.NewRequest(method, path, nil)
		r.Header.Set("Content-Type", ct)
		return r
	}
	body := []byte(`{"type":"circle"}`)

	tests := []struct {
		name string
		r    *http.Request
		body []byte
		want bool
	}{
		{"allowlisted json post", req(http.MethodPost, "/shapes/canonical", "application/json; charset=utf-8"), body, true},
		{"vendor json", req(http.MethodPut, "/shapes/canonical", "application/shape+json"), body, true},
		{"get", req(http.MethodGet, "/shapes/canonical", "application/json"), body, false},
		{"not allowlisted", req(http.MethodPost, "/other", "application/json"), body, false},
		{"not json", req(http.MethodPost, "/shapes/canonical", "text/plain"), body, false},
		{"empty", req(http.MethodPost, "/shapes/canonical", "application/json"), nil, false},
		{"too big", req(http.MethodPost, "/shapes/canonical", "application/json"), make([]byte, 1<<16+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldLogBody(tt.r, tt.body))
		})
	}
}

func TestMiddleware_LogsAndRestoresBody(t *testing.T) {
	AddBodyLogPaths("/echo-test")
	core, logs := observer.New(zap.InfoLevel)
	mw := NewMiddleware(zap.New(core))

	var seen string
	h := mw.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest(http.MethodPost, "/echo-test", strings.NewReader(`{"a":1}`))
	r.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, `{"a":1}`, seen)
	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusCreated), ctx["status"])
	assert.Equal(t, int64(2), ctx["responseSize"])
	assert.Equal(t, "/echo-test", ctx["uri"])
	assert.Equal(t, `{"a":1}`, ctx["requestData"])
	_, hasUser := ctx["username"]
	assert.False(t, hasUser)
}

func TestNewLog_WritesUnderLogDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", dir)
	t.Setenv("LOG_LEVEL", "debug")

	l := NewLog("unit.log")
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
	l.Info("hello")
	_ = l.Sync()
	assert.FileExists(t, dir+"/unit.log")
}
