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

type ReservationTeeTimeRepository interface {
	CreateBatch(ctx context.Context, links []entity.ReservationTeeTime) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]entity.ReservationTeeTime, error)
	// FindHoldingBySlotIDs returns links whose reservation still holds
	// capacity at now.
	FindHoldingBySlotIDs(ctx context.Context, slotIDs []uuid.UUID, now time.Time) ([]entity.ReservationTeeTime, error)
}

type reservationTeeTimeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationTeeTimeRepository(db database.Querier, log *zap.Logger) ReservationTeeTimeRepository {
	return &reservationTeeTimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation_tee_time")),
	}
}

func (r *reservationTeeTimeRepository) CreateBatch(ctx context.Context, links []entity.ReservationTeeTime) error {
	query := `
		INSERT INTO reservation_tee_times (id, reservation_id, tee_time_slot_id, player_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, link := range links {
		_, err := r.db.Exec(ctx, query,
			link.ID,
			link.ReservationID,
			link.TeeTimeSlotID,
			link.PlayerCount,
			link.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create reservation tee time",
				zap.Error(err),
				zap.String("reservation_id", link.ReservationID.String()),
				zap.String("slot_id", link.TeeTimeSlotID.String()),
			)
			return fmt.Errorf("create reservation tee time: %w", err)
		}
	}

	return nil
}

func (r *reservationTeeTimeRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]entity.ReservationTeeTime, error) {
	query := `
		SELECT id, reservation_id, tee_time_slot_id, player_count, created_at
		FROM reservation_tee_times
		WHERE reservation_id = $1
	`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		r.log.Error("Failed to find reservation tee times",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find reservation tee times: %w", err)
	}

	return r.collect(rows)
}

func (r *reservationTeeTimeRepository) FindHoldingBySlotIDs(ctx context.Context, slotIDs []uuid.UUID, now time.Time) ([]entity.ReservationTeeTime, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT rtt.id, rtt.reservation_id, rtt.tee_time_slot_id, rtt.player_count, rtt.created_at
		FROM reservation_tee_times rtt
		JOIN reservations r ON r.id = rtt.reservation_id
		WHERE rtt.tee_time_slot_id = ANY($1)
		  AND (r.status = 'confirmed' OR (r.status = 'pending' AND r.hold_expires_at > $2))
	`

	rows, err := r.db.Query(ctx, query, slotIDs, now)
	if err != nil {
		r.log.Error("Failed to find booked tee times",
			zap.Error(err),
			zap.Int("slots", len(slotIDs)),
		)
		return nil, fmt.Errorf("find booked tee times: %w", err)
	}

	return r.collect(rows)
}

func (r *reservationTeeTimeRepository) collect(rows pgx.Rows) ([]entity.ReservationTeeTime, error) {
	defer rows.Close()

	var links []entity.ReservationTeeTime
	for rows.Next() {
		var link entity.ReservationTeeTime
		if err := rows.Scan(&link.ID, &link.ReservationID, &link.TeeTimeSlotID, &link.PlayerCount, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation tee time row: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}
