package usecase

import (
	"errors"
	"fmt"
	"time"

	"golf-booking/internal/availability"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrInsufficientInventory  = errors.New("insufficient inventory")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrNotFound               = errors.New("not found")
	ErrUpstreamPayment        = errors.New("payment provider error")

	ErrHoldExpired       = errors.New("reservation hold expired")
	ErrInvalidDateRange  = availability.ErrInvalidDateRange
	ErrValidation        = errors.New("validation failed")
	ErrPriceMismatch     = errors.New("total price does not match current pricing")
	ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")
)

// InsufficientInventoryError names the night or tee time that could not
// take the requested quantity.
type InsufficientInventoryError struct {
	Date      *time.Time
	SlotID    *uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	switch {
	case e.SlotID != nil:
		return fmt.Sprintf("insufficient inventory: tee time %s has %d of %d requested players available",
			e.SlotID.String(), e.Available, e.Requested)
	case e.Date != nil:
		return fmt.Sprintf("insufficient inventory: %s has %d of %d requested rooms available",
			utils.FormatDate(*e.Date), e.Available, e.Requested)
	default:
		return ErrInsufficientInventory.Error()
	}
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// ValidationError carries per-field messages keyed by json path.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
