package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	// LockByID reads the reservation with FOR UPDATE.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	// FindHoldingLodging returns lodging reservations of the room types whose
	// stay overlaps [from, to) and which still hold capacity at now.
	FindHoldingLodging(ctx context.Context, roomTypeIDs []uuid.UUID, from, to, now time.Time) ([]*entity.Reservation, error)
	// Confirm moves a pending reservation with a live hold to confirmed.
	// It reports false when no row matched.
	Confirm(ctx context.Context, id uuid.UUID, paymentReference string, now time.Time) (bool, error)
	// Cancel moves the reservation from status `from` to cancelled.
	// It reports false when the reservation was not in `from`.
	Cancel(ctx context.Context, id uuid.UUID, from entity.ReservationStatus, reason string, refundReference *string, now time.Time) (bool, error)
	// ExpireHolds cancels every pending reservation whose hold lapsed at or
	// before now and returns the cancelled rows.
	ExpireHolds(ctx context.Context, now time.Time) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, code, type, user_id, status, location_id, course_id, room_type_id,
		       check_in_date, check_out_date, room_count, player_count, total_price,
		       special_requests, hold_expires_at, payment_reference, refund_reference,
		       cancellation_reason, confirmed_at, cancelled_at, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var r entity.Reservation
	err := row.Scan(
		&r.ID,
		&r.Code,
		&r.Type,
		&r.UserID,
		&r.Status,
		&r.LocationID,
		&r.CourseID,
		&r.RoomTypeID,
		&r.CheckInDate,
		&r.CheckOutDate,
		&r.RoomCount,
		&r.PlayerCount,
		&r.TotalPrice,
		&r.SpecialRequests,
		&r.HoldExpiresAt,
		&r.PaymentReference,
		&r.RefundReference,
		&r.CancellationReason,
		&r.ConfirmedAt,
		&r.CancelledAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, code, type, user_id, status, location_id, course_id,
		                          room_type_id, check_in_date, check_out_date, room_count,
		                          player_count, total_price, special_requests, hold_expires_at,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.Code,
		reservation.Type,
		reservation.UserID,
		reservation.Status,
		reservation.LocationID,
		reservation.CourseID,
		reservation.RoomTypeID,
		reservation.CheckInDate,
		reservation.CheckOutDate,
		reservation.RoomCount,
		reservation.PlayerCount,
		reservation.TotalPrice,
		reservation.SpecialRequests,
		reservation.HoldExpiresAt,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("user_id", reservation.UserID.String()),
			zap.String("type", string(reservation.Type)),
		)
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

func (r *reservationRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *reservationRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation %s: %w", id.String(), err)
	}
	return reservation, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reservations for user %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *reservationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count reservations by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reservations for user %s: %w", userID.String(), err)
	}
	return total, nil
}

func (r *reservationRepository) FindHoldingLodging(ctx context.Context, roomTypeIDs []uuid.UUID, from, to, now time.Time) ([]*entity.Reservation, error) {
	if len(roomTypeIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE room_type_id = ANY($1)
		  AND check_out_date IS NOT NULL
		  AND check_in_date < $3
		  AND check_out_date > $2
		  AND (status = 'confirmed' OR (status = 'pending' AND hold_expires_at > $4))
	`

	rows, err := r.db.Query(ctx, query, roomTypeIDs, from, to, now)
	if err != nil {
		r.log.Error("Failed to find overlapping reservations",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find overlapping reservations: %w", err)
	}

	return r.collect(rows)
}

func (r *reservationRepository) Confirm(ctx context.Context, id uuid.UUID, paymentReference string, now time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'confirmed',
		    payment_reference = $2,
		    confirmed_at = $3,
		    hold_expires_at = NULL,
		    updated_at = $3
		WHERE id = $1 AND status = 'pending' AND hold_expires_at > $3
	`

	result, err := r.db.Exec(ctx, query, id, paymentReference, now)
	if err != nil {
		r.log.Error("Failed to confirm reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("confirm reservation %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) Cancel(ctx context.Context, id uuid.UUID, from entity.ReservationStatus, reason string, refundReference *string, now time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'cancelled',
		    cancellation_reason = $3,
		    refund_reference = COALESCE($4, refund_reference),
		    cancelled_at = $5,
		    hold_expires_at = NULL,
		    updated_at = $5
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, reason, refundReference, now)
	if err != nil {
		r.log.Error("Failed to cancel reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("from", string(from)),
		)
		return false, fmt.Errorf("cancel reservation %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) ExpireHolds(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'cancelled',
		    cancellation_reason = $2,
		    cancelled_at = $1,
		    hold_expires_at = NULL,
		    updated_at = $1
		WHERE status = 'pending' AND hold_expires_at <= $1
		RETURNING ` + reservationColumns

	rows, err := r.db.Query(ctx, query, now, entity.CancellationReasonHoldExpired)
	if err != nil {
		r.log.Error("Failed to expire holds", zap.Error(err))
		return nil, fmt.Errorf("expire holds: %w", err)
	}

	return r.collect(rows)
}

func (r *reservationRepository) collect(rows pgx.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}
