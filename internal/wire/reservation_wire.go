package wire

import (
	"golf-booking/internal/adaptor"
	"golf-booking/internal/data/repository"
	"golf-booking/pkg/middleware"
	"golf-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", reservationHandler.CreateReservation)
		r.Get("/", reservationHandler.GetUserReservations)
		r.Get("/{id}", reservationHandler.GetReservation)
		r.Post("/{id}/payment", reservationHandler.StartPayment)
		r.Post("/{id}/confirm", reservationHandler.ConfirmReservation)
		r.Post("/{id}/cancel", reservationHandler.CancelReservation)
	})
}
