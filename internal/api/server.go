// Package api provides the HTTP surface of the mailer service: the chi
// router, the middleware chain, and the JSON response conventions.
package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mohamedazzim/SympoAzzi/internal/api/handlers"
	"github.com/mohamedazzim/SympoAzzi/internal/metrics"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// Server holds the router and the shared collaborators for the HTTP layer.
type Server struct {
	router chi.Router
	logger types.Logger
}

// NewServer builds the router: recoverer outermost, then request ID and
// logging, then the versioned API plus the operational endpoints.
func NewServer(mailHandler *handlers.MailHandler, logger types.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
	}

	s.router.Use(s.recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/v1/mail", mailHandler.RegisterRoutes)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	handlers.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recoverer catches panics in the handler chain, logs the stack trace, and
// writes the standardized 500 envelope. Outermost middleware so every panic
// is caught.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprintf("%v", rvr),
					"stack", string(debug.Stack()),
				)
				handlers.Respond(w, http.StatusInternalServerError, handlers.APIErrorResponse{
					Error: handlers.ErrorDetail{
						Code:      string(types.ErrCodeInternalUnexpected),
						Message:   "an unexpected error occurred",
						RequestID: middleware.GetReqID(r.Context()),
					},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs request metadata after the handler chain completes.
// Status >= 500 logs at error, >= 400 at warn, everything else at info.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		}
		switch {
		case ww.Status() >= 500:
			s.logger.Error("request completed", args...)
		case ww.Status() >= 400:
			s.logger.Warn("request completed", args...)
		default:
			s.logger.Info("request completed", args...)
		}
	})
}
