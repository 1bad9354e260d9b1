package adaptor

import (
	"errors"
	"net/http"

	"golf-booking/internal/usecase"
	"golf-booking/pkg/utils"

	"go.uber.org/zap"
)

type insufficientInventoryDetail struct {
	Date      *string `json:"date,omitempty"`
	SlotID    *string `json:"slot_id,omitempty"`
	Requested int     `json:"requested"`
	Available int     `json:"available"`
}

// handleServiceError maps usecase errors onto the response envelope.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var (
		short *usecase.InsufficientInventoryError
		verr  *usecase.ValidationError
	)

	switch {
	case errors.As(err, &short):
		detail := insufficientInventoryDetail{Requested: short.Requested, Available: short.Available}
		if short.Date != nil {
			d := utils.FormatDate(*short.Date)
			detail.Date = &d
		}
		if short.SlotID != nil {
			id := short.SlotID.String()
			detail.SlotID = &id
		}
		utils.ResponseConflict(w, err.Error(), detail)

	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrInvalidDateRange):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidStateTransition),
		errors.Is(err, usecase.ErrHoldExpired),
		errors.Is(err, usecase.ErrPriceMismatch),
		errors.Is(err, usecase.ErrRequestInProgress):
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUpstreamPayment):
		utils.ResponseBadGateway(w, "Payment provider unavailable, please retry")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
