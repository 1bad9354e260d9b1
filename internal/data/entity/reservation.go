package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationType string

const (
	ReservationTypeLodging ReservationType = "lodging"
	ReservationTypeTeeTime ReservationType = "tee_time"
	ReservationTypePackage ReservationType = "package"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// CancellationReasonHoldExpired marks a pending reservation released by expiry.
const CancellationReasonHoldExpired = "hold_expired"

type Reservation struct {
	Base
	Code               string            `db:"code"`
	Type               ReservationType   `db:"type"`
	UserID             uuid.UUID         `db:"user_id"`
	Status             ReservationStatus `db:"status"`
	LocationID         *uuid.UUID        `db:"location_id"`
	CourseID           *uuid.UUID        `db:"course_id"`
	RoomTypeID         *uuid.UUID        `db:"room_type_id"`
	CheckInDate        time.Time         `db:"check_in_date"`
	CheckOutDate       *time.Time        `db:"check_out_date"`
	RoomCount          int               `db:"room_count"`
	PlayerCount        int               `db:"player_count"`
	TotalPrice         int64             `db:"total_price"`
	SpecialRequests    *string           `db:"special_requests"`
	HoldExpiresAt      *time.Time        `db:"hold_expires_at"`
	PaymentReference   *string           `db:"payment_reference"`
	RefundReference    *string           `db:"refund_reference"`
	CancellationReason *string           `db:"cancellation_reason"`
	ConfirmedAt        *time.Time        `db:"confirmed_at"`
	CancelledAt        *time.Time        `db:"cancelled_at"`

	Items    []ReservationItem    `db:"-"`
	TeeTimes []ReservationTeeTime `db:"-"`
}

// HoldsCapacity reports whether the reservation still consumes supply at now:
// confirmed rows always do, pending rows only until their hold lapses.
func (r *Reservation) HoldsCapacity(now time.Time) bool {
	switch r.Status {
	case ReservationStatusConfirmed:
		return true
	case ReservationStatusPending:
		return r.HoldExpiresAt == nil || r.HoldExpiresAt.After(now)
	default:
		return false
	}
}

// HoldExpired is true for a pending reservation whose hold has lapsed.
func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.Status == ReservationStatusPending && r.HoldExpiresAt != nil && !r.HoldExpiresAt.After(now)
}

// CoversNight reports whether a lodging reservation occupies a unit on d.
func (r *Reservation) CoversNight(d time.Time) bool {
	if r.CheckOutDate == nil {
		return false
	}
	return !d.Before(r.CheckInDate) && d.Before(*r.CheckOutDate)
}

type ReservationItem struct {
	BaseSimple
	ReservationID uuid.UUID `db:"reservation_id"`
	Description   string    `db:"description"`
	Date          time.Time `db:"date"`
	UnitPrice     int64     `db:"unit_price"`
	Quantity      int       `db:"quantity"`
	Subtotal      int64     `db:"subtotal"`
}

type ReservationTeeTime struct {
	BaseSimple
	ReservationID uuid.UUID `db:"reservation_id"`
	TeeTimeSlotID uuid.UUID `db:"tee_time_slot_id"`
	PlayerCount   int       `db:"player_count"`
}
