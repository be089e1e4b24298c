// Package httpapi exposes the credential flows over HTTP. It is a thin
// surface: request decoding and status mapping live here, all semantics live
// in the tokens service.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbaumgart/identity-server/internal/logging"
	"github.com/mbaumgart/identity-server/internal/server/tokens"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr   string
	logger logging.Logger
	tokens *tokens.Service
}

func NewServer(addr string, logger logging.Logger, tokenService *tokens.Service) *Server {
	return &Server{
		addr:   addr,
		logger: logger.With("module", "http_server"),
		tokens: tokenService,
	}
}

// Router builds the chi router with the auth routes mounted under /api/auth.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/refresh-token", s.handleRefreshToken)
		r.Post("/revoke-token", s.handleRevokeToken)

		r.Group(func(r chi.Router) {
			r.Use(s.Authenticator)
			r.Post("/revoke-all", s.handleRevokeAll)
			r.Get("/profile", s.handleProfile)
		})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
