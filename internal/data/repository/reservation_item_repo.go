package repository

import (
	"context"
	"fmt"

	"golf-booking/internal/data/entity"
	"golf-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.ReservationItem) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]entity.ReservationItem, error)
}

type reservationItemRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationItemRepository(db database.Querier, log *zap.Logger) ReservationItemRepository {
	return &reservationItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation_item")),
	}
}

func (r *reservationItemRepository) CreateBatch(ctx context.Context, items []entity.ReservationItem) error {
	query := `
		INSERT INTO reservation_items (id, reservation_id, description, date, unit_price,
		                               quantity, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, item := range items {
		_, err := r.db.Exec(ctx, query,
			item.ID,
			item.ReservationID,
			item.Description,
			item.Date,
			item.UnitPrice,
			item.Quantity,
			item.Subtotal,
			item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create reservation item",
				zap.Error(err),
				zap.String("reservation_id", item.ReservationID.String()),
			)
			return fmt.Errorf("create reservation item: %w", err)
		}
	}

	return nil
}

func (r *reservationItemRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]entity.ReservationItem, error) {
	query := `
		SELECT id, reservation_id, description, date, unit_price, quantity, subtotal, created_at
		FROM reservation_items
		WHERE reservation_id = $1
		ORDER BY date, created_at
	`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		r.log.Error("Failed to find reservation items",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find reservation items: %w", err)
	}
	defer rows.Close()

	var items []entity.ReservationItem
	for rows.Next() {
		var item entity.ReservationItem
		err := rows.Scan(
			&item.ID,
			&item.ReservationID,
			&item.Description,
			&item.Date,
			&item.UnitPrice,
			&item.Quantity,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation item row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
