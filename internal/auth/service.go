package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth/jwt"
	"github.com/gokatarajesh/quiz-session/internal/logging"
)

// Service issues and validates quiz session credentials.
type Service struct {
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
	newID    func() uuid.UUID
}

// NewService creates a session credential service.
func NewService(cfg jwt.TokenConfig, logger zerolog.Logger) *Service {
	return &Service{
		tokenMgr: jwt.NewManager(cfg),
		logger:   logger,
		newID:    uuid.New,
	}
}

// IssueSession mints a token for a brand new session.
func (s *Service) IssueSession(ctx context.Context) (*SessionGrant, error) {
	return s.grant(ctx, s.newID(), "session_issued")
}

// RenewSession mints a fresh token for an existing session, extending its lifetime.
func (s *Service) RenewSession(ctx context.Context, sessionID uuid.UUID) (*SessionGrant, error) {
	return s.grant(ctx, sessionID, "session_renewed")
}

func (s *Service) grant(ctx context.Context, sessionID uuid.UUID, event string) (*SessionGrant, error) {
	token, expiresAt, err := s.tokenMgr.GenerateSessionToken(sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	log := logging.FromContext(ctx, s.logger)
	log.Info().
		Str("session_id", sessionID.String()).
		Time("expires_at", expiresAt).
		Msg(event)

	return &SessionGrant{
		SessionID:   sessionID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken checks a session token and returns its claims.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateSessionToken(token)
}
