package repository

import (
	"context"
	"errors"
	"fmt"

	"golf-booking/internal/data/entity"
	"golf-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error)
	FindActiveByLocation(ctx context.Context, locationID uuid.UUID) ([]*entity.RoomType, error)
}

type roomTypeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRoomTypeRepository(db database.Querier, log *zap.Logger) RoomTypeRepository {
	return &roomTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "room_type")),
	}
}

const roomTypeColumns = `id, location_id, name, bed_configuration, max_occupancy, base_price,
		       is_active, display_order, created_at, updated_at`

func scanRoomType(row pgx.Row) (*entity.RoomType, error) {
	var rt entity.RoomType
	err := row.Scan(
		&rt.ID,
		&rt.LocationID,
		&rt.Name,
		&rt.BedConfiguration,
		&rt.MaxOccupancy,
		&rt.BasePrice,
		&rt.IsActive,
		&rt.DisplayOrder,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *roomTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error) {
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = $1`

	rt, err := scanRoomType(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room type by ID",
			zap.Error(err),
			zap.String("room_type_id", id.String()),
		)
		return nil, fmt.Errorf("find room type %s: %w", id.String(), err)
	}

	return rt, nil
}

func (r *roomTypeRepository) FindActiveByLocation(ctx context.Context, locationID uuid.UUID) ([]*entity.RoomType, error) {
	query := `
		SELECT ` + roomTypeColumns + `
		FROM room_types
		WHERE location_id = $1 AND is_active = TRUE
		ORDER BY display_order, name
	`

	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		r.log.Error("Failed to find room types by location",
			zap.Error(err),
			zap.String("location_id", locationID.String()),
		)
		return nil, fmt.Errorf("find room types for location %s: %w", locationID.String(), err)
	}
	defer rows.Close()

	var roomTypes []*entity.RoomType
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			r.log.Error("Failed to scan room type row", zap.Error(err))
			return nil, fmt.Errorf("scan room type row: %w", err)
		}
		roomTypes = append(roomTypes, rt)
	}

	return roomTypes, rows.Err()
}
