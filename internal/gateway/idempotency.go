package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrKeyInProgress = errors.New("idempotency key is already being processed")

const (
	idempotencyStatusProcessing = "processing"
	idempotencyStatusSuccess    = "success"

	// A claim left behind by a crashed request frees the key after one hold window.
	idempotencyProcessingTTL = 15 * time.Minute
	idempotencyResultTTL     = 24 * time.Hour
)

// IdempotencyResult is what a completed key resolves to.
type IdempotencyResult struct {
	ReservationID uuid.UUID `json:"reservation_id"`
}

// IdempotencyGateway guards reservation creation against client retries.
// Reserve returns nil, nil when the caller now owns the key, the stored
// result when the key already completed, and ErrKeyInProgress while another
// request holds it.
type IdempotencyGateway interface {
	Reserve(ctx context.Context, key string) (*IdempotencyResult, error)
	MarkSuccess(ctx context.Context, key string, result IdempotencyResult) error
	MarkFailure(ctx context.Context, key string) error
}
