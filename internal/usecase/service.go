package usecase

import (
	"time"

	"golf-booking/internal/data/repository"
	"golf-booking/internal/gateway"
	"golf-booking/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("golf-booking/usecase")

// Dependencies are the collaborators the services are built from.
type Dependencies struct {
	Repo        *repository.Repository
	Tx          repository.Transactor
	Payment     gateway.PaymentGateway
	Idempotency gateway.IdempotencyGateway
	Events      gateway.EventPublisher
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	Availability AvailabilityService
	Reservation  ReservationService
	HoldSweeper  *HoldSweeper
}

func NewService(deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Events == nil {
		deps.Events = gateway.NewLogPublisher(log)
	}
	if deps.Idempotency == nil {
		deps.Idempotency = gateway.NewIdempotencyGatewayMemory()
	}

	reservation := NewReservationService(deps, config.Booking.HoldDuration(), log)

	return &Service{
		Availability: NewAvailabilityService(deps.Repo, deps.Now, log),
		Reservation:  reservation,
		HoldSweeper:  NewHoldSweeper(reservation, config.Booking.SweepInterval, log),
	}
}
