package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	handlers *handlers
	srv      *http.Server
}

func New(logger *slog.Logger, rooms roomLister, clients clientCounter, stats statsReader) *Server {
	return &Server{
		handlers: &handlers{
			logger:  logger.With("component", "rest"),
			rooms:   rooms,
			clients: clients,
			stats:   stats,
		},
	}
}

// Handler - returns the routes of the HTTP server.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlers.PingHandler)
	mux.HandleFunc("GET /rooms", that.handlers.RoomsHandler)
	mux.HandleFunc("GET /stats", that.handlers.StatsHandler)

	return mux
}

// Start - starts HTTP server. It returns nil after Shutdown.
func (that *Server) Start(port string) error {
	that.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if that.srv == nil {
		return nil
	}

	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
