package repository

import (
	"context"
	"fmt"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomInventoryRepository interface {
	// FindByRange returns rows with from <= date < to for the given room types.
	FindByRange(ctx context.Context, roomTypeIDs []uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error)
	// LockRange is FindByRange for one room type with FOR UPDATE, in date
	// order so concurrent bookers acquire locks in the same sequence.
	LockRange(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error)
}

type roomInventoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRoomInventoryRepository(db database.Querier, log *zap.Logger) RoomInventoryRepository {
	return &roomInventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "room_inventory")),
	}
}

func (r *roomInventoryRepository) FindByRange(ctx context.Context, roomTypeIDs []uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error) {
	if len(roomTypeIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT room_type_id, date, total_units, blocked_units
		FROM room_inventory
		WHERE room_type_id = ANY($1) AND date >= $2 AND date < $3
		ORDER BY room_type_id, date
	`

	rows, err := r.db.Query(ctx, query, roomTypeIDs, from, to)
	if err != nil {
		r.log.Error("Failed to find room inventory",
			zap.Error(err),
			zap.Int("room_types", len(roomTypeIDs)),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find room inventory: %w", err)
	}

	return r.collect(rows)
}

func (r *roomInventoryRepository) LockRange(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error) {
	query := `
		SELECT room_type_id, date, total_units, blocked_units
		FROM room_inventory
		WHERE room_type_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
		FOR UPDATE
	`

	rows, err := r.db.Query(ctx, query, roomTypeID, from, to)
	if err != nil {
		r.log.Error("Failed to lock room inventory",
			zap.Error(err),
			zap.String("room_type_id", roomTypeID.String()),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("lock room inventory for %s: %w", roomTypeID.String(), err)
	}

	return r.collect(rows)
}

func (r *roomInventoryRepository) collect(rows pgx.Rows) ([]entity.RoomInventory, error) {
	defer rows.Close()

	var inventory []entity.RoomInventory
	for rows.Next() {
		var ri entity.RoomInventory
		if err := rows.Scan(&ri.RoomTypeID, &ri.Date, &ri.TotalUnits, &ri.BlockedUnits); err != nil {
			r.log.Error("Failed to scan room inventory row", zap.Error(err))
			return nil, fmt.Errorf("scan room inventory row: %w", err)
		}
		inventory = append(inventory, ri)
	}

	return inventory, rows.Err()
}
