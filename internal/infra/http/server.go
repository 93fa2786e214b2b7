package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

// Route — дополнительный набор маршрутов (например, страница оплаты).
type Route interface {
	Register(mux *http.ServeMux)
}

func New(addr string, exposeMetrics bool, routes ...Route) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewMux(exposeMetrics, routes...),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func NewMux(exposeMetrics bool, routes ...Route) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	for _, r := range routes {
		r.Register(mux)
	}
	return mux
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
