package entity

import (
	"time"

	"github.com/google/uuid"
)

// RoomType is a lodging offering at a location. Read-only to the booking flow.
type RoomType struct {
	Base
	LocationID       uuid.UUID `db:"location_id"`
	Name             string    `db:"name"`
	BedConfiguration string    `db:"bed_configuration"`
	MaxOccupancy     int       `db:"max_occupancy"`
	BasePrice        int64     `db:"base_price"`
	IsActive         bool      `db:"is_active"`
	DisplayOrder     int       `db:"display_order"`
}

// RoomInventory is the capacity of one room type on one calendar date.
// A missing row means nothing is for sale that night.
type RoomInventory struct {
	RoomTypeID   uuid.UUID `db:"room_type_id"`
	Date         time.Time `db:"date"`
	TotalUnits   int       `db:"total_units"`
	BlockedUnits int       `db:"blocked_units"`
}

// Sellable is total minus blocked, never negative.
func (ri RoomInventory) Sellable() int {
	if ri.BlockedUnits >= ri.TotalUnits {
		return 0
	}
	return ri.TotalUnits - ri.BlockedUnits
}
