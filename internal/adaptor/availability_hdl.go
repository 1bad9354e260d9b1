package adaptor

import (
	"net/http"

	"golf-booking/internal/dto/request"
	"golf-booking/internal/usecase"
	"golf-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// LodgingAvailability handles GET /api/lodging/availability (public)
func (h *AvailabilityHandler) LodgingAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.LodgingAvailabilityRequest{
		RoomTypeID: query.Get("room_type_id"),
		CheckIn:    query.Get("check_in"),
		CheckOut:   query.Get("check_out"),
		Rooms:      utils.ParseInt(query.Get("rooms"), 1),
	}

	result, err := h.service.LodgingAvailability(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get lodging availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// LocationAvailability handles GET /api/locations/{id}/availability (public)
func (h *AvailabilityHandler) LocationAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.LocationAvailabilityRequest{
		LocationID: chi.URLParam(r, "id"),
		CheckIn:    query.Get("check_in"),
		CheckOut:   query.Get("check_out"),
		Rooms:      utils.ParseInt(query.Get("rooms"), 1),
	}

	result, err := h.service.LocationAvailability(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get location availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// TeeTimeAvailability handles GET /api/courses/{id}/tee-times (public)
func (h *AvailabilityHandler) TeeTimeAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.TeeTimeAvailabilityRequest{
		CourseID: chi.URLParam(r, "id"),
		Date:     query.Get("date"),
		Players:  utils.ParseInt(query.Get("players"), 1),
	}

	result, err := h.service.TeeTimeAvailability(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get tee time availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
