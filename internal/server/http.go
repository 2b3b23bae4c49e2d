package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth"
	"github.com/gokatarajesh/quiz-session/internal/config"
	"github.com/gokatarajesh/quiz-session/internal/logging"
	"github.com/gokatarajesh/quiz-session/internal/session"
	httperrors "github.com/gokatarajesh/quiz-session/pkg/http/errors"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the endpoint implementations mounted by NewHTTPServer.
type Handlers struct {
	Auth      *auth.HTTPHandlers
	AuthSvc   *auth.Service
	Session   *session.HTTPHandlers
	SessionWS *session.WSHandler
}

// NewHTTPServer wires health, metrics, session and WebSocket routes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, store Pinger, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.Store.OpTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log := logging.FromContext(ctx, logger)
			log.Error().Err(err).Str("backend", cfg.Store.Backend).Msg("store ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "Session store unreachable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	authenticated := auth.AuthMiddleware(h.AuthSvc, logger)
	requireSession := func(fn http.HandlerFunc) http.Handler {
		return authenticated(auth.RequireSession(fn))
	}

	mux.Handle("/v1/sessions", authenticated(http.HandlerFunc(h.Auth.CreateSession)))
	mux.HandleFunc("/v1/catalog", h.Session.Catalog)
	mux.Handle("/v1/session", requireSession(h.Session.Session))
	mux.Handle("/v1/session/category", requireSession(h.Session.SelectCategory))
	mux.Handle("/v1/session/answer", requireSession(h.Session.SubmitAnswer))
	mux.Handle("/v1/session/advance", requireSession(h.Session.Advance))

	mux.HandleFunc("/ws/session", h.SessionWS.HandleWebSocket)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           withRequestLogger(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// withRequestLogger attaches a request-scoped logger to every request context.
func withRequestLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
	})
}
