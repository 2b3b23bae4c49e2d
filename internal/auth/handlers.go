package auth

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/logging"
	httperrors "github.com/gokatarajesh/quiz-session/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for session credentials.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for credential endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logger,
	}
}

// CreateSession handles POST /v1/sessions. A request already carrying a valid
// session token gets that session renewed instead of a new one.
func (h *HTTPHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}

	var (
		grant  *SessionGrant
		err    error
		status = http.StatusCreated
	)
	if sessionID, ok := SessionIDFromContext(r.Context()); ok {
		grant, err = h.authSvc.RenewSession(r.Context(), sessionID)
		status = http.StatusOK
	} else {
		grant, err = h.authSvc.IssueSession(r.Context())
	}
	if err != nil {
		log := logging.FromContext(r.Context(), h.logger)
		log.Error().Err(err).Msg("session issue failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSessionIssueFailed, "Could not issue session")
		return
	}

	httperrors.RespondJSON(w, status, map[string]interface{}{
		"session_id":   grant.SessionID.String(),
		"access_token": grant.AccessToken,
		"expires_at":   grant.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
