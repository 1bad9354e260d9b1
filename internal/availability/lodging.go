// Package availability derives remaining capacity from the inventory ledger
// and the reservations that currently hold capacity. Nothing here touches
// storage; callers load the rows and pass them in.
package availability

import (
	"errors"
	"time"

	"golf-booking/internal/data/entity"

	"github.com/google/uuid"
)

// ErrInvalidDateRange is returned for ranges with zero or negative nights.
var ErrInvalidDateRange = errors.New("invalid date range")

// MaxNights bounds a single lodging query.
const MaxNights = 60

// DateAvailability is the derived capacity of one room type on one night.
type DateAvailability struct {
	Date         time.Time `json:"date"`
	HasInventory bool      `json:"has_inventory"`
	TotalUnits   int       `json:"total_units"`
	BlockedUnits int       `json:"blocked_units"`
	Booked       int       `json:"booked"`
	Available    int       `json:"available"`
}

// LodgingResult holds per-night availability for [CheckIn, CheckOut).
type LodgingResult struct {
	RoomTypeID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Dates      []DateAvailability
}

// Nights returns the number of nights between two dates (UTC calendar days).
func Nights(checkIn, checkOut time.Time) int {
	return int(dayOf(checkOut).Sub(dayOf(checkIn)).Hours() / 24)
}

// ValidateRange rejects empty, inverted or oversized ranges.
func ValidateRange(checkIn, checkOut time.Time) error {
	n := Nights(checkIn, checkOut)
	if n <= 0 || n > MaxNights {
		return ErrInvalidDateRange
	}
	return nil
}

// EachNight returns every night in [checkIn, checkOut).
func EachNight(checkIn, checkOut time.Time) []time.Time {
	start, end := dayOf(checkIn), dayOf(checkOut)
	var nights []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// Lodging computes availability for roomTypeID on every night of
// [checkIn, checkOut). Inventory rows of other room types and reservations
// that no longer hold capacity at now are ignored.
func Lodging(roomTypeID uuid.UUID, checkIn, checkOut time.Time, inventory []entity.RoomInventory, reservations []*entity.Reservation, now time.Time) (LodgingResult, error) {
	if err := ValidateRange(checkIn, checkOut); err != nil {
		return LodgingResult{}, err
	}

	ledger := make(map[time.Time]entity.RoomInventory, len(inventory))
	for _, row := range inventory {
		if row.RoomTypeID != roomTypeID {
			continue
		}
		ledger[dayOf(row.Date)] = row
	}

	var holding []*entity.Reservation
	for _, r := range reservations {
		if r.RoomTypeID == nil || *r.RoomTypeID != roomTypeID || !r.HoldsCapacity(now) {
			continue
		}
		holding = append(holding, r)
	}

	result := LodgingResult{
		RoomTypeID: roomTypeID,
		CheckIn:    dayOf(checkIn),
		CheckOut:   dayOf(checkOut),
	}

	for _, d := range EachNight(checkIn, checkOut) {
		da := DateAvailability{Date: d}

		row, ok := ledger[d]
		if ok {
			da.HasInventory = true
			da.TotalUnits = row.TotalUnits
			da.BlockedUnits = row.BlockedUnits
			for _, r := range holding {
				if r.CoversNight(d) {
					da.Booked += r.RoomCount
				}
			}
			da.Available = max(0, row.TotalUnits-row.BlockedUnits-da.Booked)
		}

		result.Dates = append(result.Dates, da)
	}

	return result, nil
}

// MinAvailable is the smallest availability across the range.
func (r LodgingResult) MinAvailable() int {
	if len(r.Dates) == 0 {
		return 0
	}
	m := r.Dates[0].Available
	for _, d := range r.Dates[1:] {
		m = min(m, d.Available)
	}
	return m
}

// BindingConstraint returns the first night that cannot take rooms more units.
func (r LodgingResult) BindingConstraint(rooms int) (DateAvailability, bool) {
	for _, d := range r.Dates {
		if d.Available < rooms {
			return d, true
		}
	}
	return DateAvailability{}, false
}

// Admits reports whether rooms units fit on every night of the range.
func (r LodgingResult) Admits(rooms int) bool {
	_, short := r.BindingConstraint(rooms)
	return len(r.Dates) > 0 && !short
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
