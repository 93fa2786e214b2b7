package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingRoute struct{}

func (pingRoute) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Body)
	return rec.Code, string(body)
}

func TestMux_Health(t *testing.T) {
	code, body := get(t, NewMux(false), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)
}

func TestMux_MetricsToggle(t *testing.T) {
	code, _ := get(t, NewMux(false), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := get(t, NewMux(true), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
}

func TestMux_ExtraRoutes(t *testing.T) {
	code, body := get(t, NewMux(false, pingRoute{}), "/ping")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body)
}
