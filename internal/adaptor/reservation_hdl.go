package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"golf-booking/internal/dto/request"
	"golf-booking/internal/usecase"
	"golf-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateReservation handles POST /api/reservations (protected)
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), userID, r.Header.Get(idempotencyKeyHeader), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// GetUserReservations handles GET /api/reservations (protected)
func (h *ReservationHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.service.ListUserReservations(r.Context(), userID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetReservation handles GET /api/reservations/{id} (protected)
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	userID, reservationID, ok := h.identify(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), userID, reservationID)
	if err != nil {
		handleServiceError(h.log, w, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// StartPayment handles POST /api/reservations/{id}/payment (protected)
func (h *ReservationHandler) StartPayment(w http.ResponseWriter, r *http.Request) {
	userID, reservationID, ok := h.identify(w, r)
	if !ok {
		return
	}

	intent, err := h.service.StartPayment(r.Context(), userID, reservationID)
	if err != nil {
		handleServiceError(h.log, w, err, "start payment")
		return
	}

	utils.ResponseSuccess(w, "success", intent)
}

// ConfirmReservation handles POST /api/reservations/{id}/confirm (protected)
func (h *ReservationHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	userID, reservationID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req request.ConfirmReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reservation, err := h.service.ConfirmReservation(r.Context(), userID, reservationID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// CancelReservation handles POST /api/reservations/{id}/cancel (protected).
// The body is optional.
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	userID, reservationID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req request.CancelReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reservation, err := h.service.CancelReservation(r.Context(), userID, reservationID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// identify reads the caller and the {id} path parameter, writing the error response itself.
func (h *ReservationHandler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	reservationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid reservation ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, reservationID, true
}
