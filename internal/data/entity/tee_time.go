package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeeTimeSlot struct {
	Base
	CourseID       uuid.UUID `db:"course_id"`
	Date           time.Time `db:"date"`
	TeeTime        string    `db:"tee_time"` // HH:MM
	MaxPlayers     int       `db:"max_players"`
	PricePerPlayer int64     `db:"price_per_player"`
	PriceOverride  *int64    `db:"price_override"`
	IsBlocked      bool      `db:"is_blocked"`
}

// EffectivePrice is the per-player price, honouring an administrative override.
func (s TeeTimeSlot) EffectivePrice() int64 {
	if s.PriceOverride != nil {
		return *s.PriceOverride
	}
	return s.PricePerPlayer
}
