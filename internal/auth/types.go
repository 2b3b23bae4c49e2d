package auth

import (
	"time"

	"github.com/google/uuid"
)

// SessionGrant is the bearer credential for one quiz session.
type SessionGrant struct {
	SessionID   uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
}
