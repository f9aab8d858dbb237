package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/HarshaOnlineJourny/ChatApp/internal/app/server/handlers"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/services"
	"github.com/HarshaOnlineJourny/ChatApp/pkg/middleware"
)

type Server struct {
	mux       *http.ServeMux
	log       *slog.Logger
	name      string
	addr      string
	wsHandler *handlers.WSHandler
}

func NewServer(
	log *slog.Logger,
	name string,
	addr string,
	registry contracts.Registry,
	router *services.RouterService,
) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		log:       log,
		name:      name,
		addr:      addr,
		wsHandler: handlers.NewWSHandler(registry, router),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	logging := middleware.RequestLogger(s.log)
	tracing := middleware.TracerMiddleware(s.name)

	s.mux.Handle("/ws", logging(tracing(http.HandlerFunc(s.wsHandler.Handler))))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
		// No ReadTimeout/WriteTimeout here: they would kill the long-lived
		// WebSocket sessions.
		ReadHeaderTimeout: 15 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server - starting", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
