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

type TeeTimeSlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error)
	FindOpenByCourseAndDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]*entity.TeeTimeSlot, error)
	// LockByID reads the slot with FOR UPDATE, serializing bookers of the slot.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error)
}

type teeTimeSlotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTeeTimeSlotRepository(db database.Querier, log *zap.Logger) TeeTimeSlotRepository {
	return &teeTimeSlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "tee_time_slot")),
	}
}

const teeTimeSlotColumns = `id, course_id, date, to_char(tee_time, 'HH24:MI'), max_players,
		       price_per_player, price_override, is_blocked, created_at, updated_at`

func scanTeeTimeSlot(row pgx.Row) (*entity.TeeTimeSlot, error) {
	var s entity.TeeTimeSlot
	err := row.Scan(
		&s.ID,
		&s.CourseID,
		&s.Date,
		&s.TeeTime,
		&s.MaxPlayers,
		&s.PricePerPlayer,
		&s.PriceOverride,
		&s.IsBlocked,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *teeTimeSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error) {
	return r.findOne(ctx, `SELECT `+teeTimeSlotColumns+` FROM tee_time_slots WHERE id = $1`, id)
}

func (r *teeTimeSlotRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error) {
	return r.findOne(ctx, `SELECT `+teeTimeSlotColumns+` FROM tee_time_slots WHERE id = $1 FOR UPDATE`, id)
}

func (r *teeTimeSlotRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.TeeTimeSlot, error) {
	slot, err := scanTeeTimeSlot(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tee time slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find tee time slot %s: %w", id.String(), err)
	}
	return slot, nil
}

func (r *teeTimeSlotRepository) FindOpenByCourseAndDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]*entity.TeeTimeSlot, error) {
	query := `
		SELECT ` + teeTimeSlotColumns + `
		FROM tee_time_slots
		WHERE course_id = $1 AND date = $2 AND is_blocked = FALSE
		ORDER BY tee_time
	`

	rows, err := r.db.Query(ctx, query, courseID, date)
	if err != nil {
		r.log.Error("Failed to find tee time slots",
			zap.Error(err),
			zap.String("course_id", courseID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find tee time slots for course %s: %w", courseID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.TeeTimeSlot
	for rows.Next() {
		s, err := scanTeeTimeSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan tee time slot row", zap.Error(err))
			return nil, fmt.Errorf("scan tee time slot row: %w", err)
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}
