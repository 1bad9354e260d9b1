package wire

import (
	"golf-booking/internal/adaptor"
	"golf-booking/internal/data/repository"
	"golf-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/lodging/availability", availabilityHandler.LodgingAvailability)
	r.Get("/api/locations/{id}/availability", availabilityHandler.LocationAvailability)
	r.Get("/api/courses/{id}/tee-times", availabilityHandler.TeeTimeAvailability)
}
