package repository

import (
	"golf-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	RoomType           RoomTypeRepository
	RoomInventory      RoomInventoryRepository
	TeeTimeSlot        TeeTimeSlotRepository
	Reservation        ReservationRepository
	ReservationItem    ReservationItemRepository
	ReservationTeeTime ReservationTeeTimeRepository
	Session            SessionRepository
}

// NewRepository binds every repository to db, which is either the pool or an
// open transaction.
func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		RoomType:           NewRoomTypeRepository(db, log),
		RoomInventory:      NewRoomInventoryRepository(db, log),
		TeeTimeSlot:        NewTeeTimeSlotRepository(db, log),
		Reservation:        NewReservationRepository(db, log),
		ReservationItem:    NewReservationItemRepository(db, log),
		ReservationTeeTime: NewReservationTeeTimeRepository(db, log),
		Session:            NewSessionRepository(db, log),
	}
}
