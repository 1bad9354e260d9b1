package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an identity-provider session; the booking API trusts it for the caller id.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
