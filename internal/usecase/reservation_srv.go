package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golf-booking/internal/availability"
	"golf-booking/internal/data/entity"
	"golf-booking/internal/data/repository"
	"golf-booking/internal/dto/request"
	"golf-booking/internal/dto/response"
	"golf-booking/internal/gateway"
	"golf-booking/pkg/metrics"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultCancellationReason = "cancelled_by_user"

type ReservationService interface {
	// CreateReservation checks availability and places a pending hold in one
	// transaction. A non-empty idempotencyKey makes retries return the
	// reservation created by the first attempt.
	CreateReservation(ctx context.Context, userID uuid.UUID, idempotencyKey string, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	StartPayment(ctx context.Context, userID, reservationID uuid.UUID) (*response.PaymentIntentResponse, error)
	ConfirmReservation(ctx context.Context, userID, reservationID uuid.UUID, req *request.ConfirmReservationRequest) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, userID, reservationID uuid.UUID, req *request.CancelReservationRequest) (*response.ReservationResponse, error)
	GetReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error)
	ListUserReservations(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	// ExpireHolds cancels every pending reservation whose hold has lapsed.
	ExpireHolds(ctx context.Context) (int, error)
}

type reservationService struct {
	repo        *repository.Repository
	tx          repository.Transactor
	payment     gateway.PaymentGateway
	idempotency gateway.IdempotencyGateway
	events      gateway.EventPublisher
	hold        time.Duration
	now         func() time.Time
	log         *zap.Logger
}

func NewReservationService(deps Dependencies, hold time.Duration, log *zap.Logger) ReservationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &reservationService{
		repo:        deps.Repo,
		tx:          deps.Tx,
		payment:     deps.Payment,
		idempotency: deps.Idempotency,
		events:      deps.Events,
		hold:        hold,
		now:         now,
		log:         log.With(zap.String("service", "reservation")),
	}
}

// bookingPlan is a create request after parsing, before touching storage.
type bookingPlan struct {
	resType    entity.ReservationType
	locationID *uuid.UUID
	courseID   *uuid.UUID
	roomTypeID uuid.UUID
	slotID     uuid.UUID
	checkIn    time.Time
	checkOut   time.Time
	rooms      int
	players    int
	items      []entity.ReservationItem
}

func (s *reservationService) CreateReservation(ctx context.Context, userID uuid.UUID, idempotencyKey string, req *request.CreateReservationRequest) (resp *response.ReservationResponse, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.CreateReservation")
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	plan, err := parsePlan(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("reservation.type", string(plan.resType)))

	if idempotencyKey != "" {
		key := userID.String() + ":" + idempotencyKey
		prior, reserveErr := s.idempotency.Reserve(ctx, key)
		if errors.Is(reserveErr, gateway.ErrKeyInProgress) {
			return nil, ErrRequestInProgress
		}
		if reserveErr != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", reserveErr)
		}
		if prior != nil {
			s.log.Info("Replaying idempotent create",
				zap.String("reservation_id", prior.ReservationID.String()),
				zap.String("user_id", userID.String()),
			)
			return s.GetReservation(ctx, userID, prior.ReservationID)
		}

		defer func() {
			if err != nil {
				if markErr := s.idempotency.MarkFailure(context.WithoutCancel(ctx), key); markErr != nil {
					s.log.Warn("Failed to release idempotency key", zap.Error(markErr))
				}
				return
			}
			id := uuid.MustParse(resp.ID)
			if markErr := s.idempotency.MarkSuccess(context.WithoutCancel(ctx), key, gateway.IdempotencyResult{ReservationID: id}); markErr != nil {
				s.log.Warn("Failed to store idempotency result", zap.Error(markErr))
			}
		}()
	}

	now := s.now()
	var reservation *entity.Reservation

	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		var err error
		switch plan.resType {
		case entity.ReservationTypeLodging:
			reservation, err = s.holdLodging(ctx, repo, userID, plan, req.TotalPrice, req.SpecialRequests, now)
		case entity.ReservationTypeTeeTime:
			reservation, err = s.holdTeeTime(ctx, repo, userID, plan, req.TotalPrice, req.SpecialRequests, now)
		default:
			err = newValidationError("type", "Unsupported reservation type")
		}
		return err
	})
	if err != nil {
		s.recordRejection(plan, userID, err)
		return nil, err
	}

	metrics.ReservationsCreated.WithLabelValues(string(reservation.Type)).Inc()
	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("code", reservation.Code),
		zap.String("user_id", userID.String()),
		zap.String("type", string(reservation.Type)),
		zap.Int64("total_price", reservation.TotalPrice),
		zap.Timep("hold_expires_at", reservation.HoldExpiresAt),
	)
	s.publish(ctx, gateway.EventReservationCreated, reservation, "")

	result := response.ReservationToResponse(reservation)
	return &result, nil
}

func (s *reservationService) recordRejection(plan *bookingPlan, userID uuid.UUID, err error) {
	var short *InsufficientInventoryError
	switch {
	case errors.As(err, &short):
		metrics.ReservationsRejected.WithLabelValues(string(plan.resType), "insufficient_inventory").Inc()
		s.log.Info("Reservation rejected: insufficient inventory",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	case errors.Is(err, ErrPriceMismatch):
		metrics.ReservationsRejected.WithLabelValues(string(plan.resType), "price_mismatch").Inc()
		s.log.Info("Reservation rejected: price mismatch", zap.String("user_id", userID.String()), zap.Error(err))
	case errors.Is(err, ErrNotFound):
		metrics.ReservationsRejected.WithLabelValues(string(plan.resType), "not_found").Inc()
		s.log.Error("Reservation rejected: referenced inventory not found", zap.String("user_id", userID.String()), zap.Error(err))
	case errors.Is(err, ErrValidation):
		metrics.ReservationsRejected.WithLabelValues(string(plan.resType), "validation").Inc()
	default:
		s.log.Error("Failed to create reservation", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func parsePlan(req *request.CreateReservationRequest) (*bookingPlan, error) {
	plan := &bookingPlan{resType: entity.ReservationType(req.Type)}

	if req.LocationID != "" {
		id := uuid.MustParse(req.LocationID)
		plan.locationID = &id
	}

	switch plan.resType {
	case entity.ReservationTypeLodging:
		plan.roomTypeID = uuid.MustParse(req.RoomTypeID)
		plan.rooms = req.RoomCount

		var err error
		plan.checkIn, plan.checkOut, err = parseStay(req.CheckInDate, req.CheckOutDate)
		if err != nil {
			return nil, err
		}

		items, err := parseItems(req.Items, plan.checkIn, plan.checkOut)
		if err != nil {
			return nil, err
		}
		plan.items = items

	case entity.ReservationTypeTeeTime:
		courseID := uuid.MustParse(req.CourseID)
		plan.courseID = &courseID
		plan.slotID = uuid.MustParse(req.TeeTimeSlotID)
		plan.players = req.PlayerCount

		if req.CheckInDate != "" {
			d, err := utils.ParseDate(req.CheckInDate)
			if err != nil {
				return nil, newValidationError("check_in_date", err.Error())
			}
			plan.checkIn = d
		}
	}

	return plan, nil
}

// parseItems turns client line items into entities, checking each subtotal
// and that every item falls inside the stay.
func parseItems(in []request.ReservationItemRequest, checkIn, checkOut time.Time) ([]entity.ReservationItem, error) {
	items := make([]entity.ReservationItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)

		date, err := utils.ParseDate(it.Date)
		if err != nil {
			return nil, newValidationError(field+".date", err.Error())
		}
		if date.Before(checkIn) || !date.Before(checkOut) {
			return nil, newValidationError(field+".date", "Must fall within the stay")
		}
		if it.UnitPrice*int64(it.Quantity) != it.Subtotal {
			return nil, newValidationError(field+".subtotal", "Must equal unit_price times quantity")
		}

		items = append(items, entity.ReservationItem{
			Description: it.Description,
			Date:        date,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return items, nil
}

func (s *reservationService) holdLodging(ctx context.Context, repo *repository.Repository, userID uuid.UUID, plan *bookingPlan, clientTotal *int64, specialRequests *string, now time.Time) (*entity.Reservation, error) {
	roomType, err := repo.RoomType.FindByID(ctx, plan.roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("find room type: %w", err)
	}
	if roomType == nil || !roomType.IsActive {
		return nil, fmt.Errorf("room type %s: %w", plan.roomTypeID.String(), ErrNotFound)
	}
	if plan.locationID != nil && *plan.locationID != roomType.LocationID {
		return nil, newValidationError("location_id", "Room type does not belong to this location")
	}

	inventory, err := repo.RoomInventory.LockRange(ctx, roomType.ID, plan.checkIn, plan.checkOut)
	if err != nil {
		return nil, fmt.Errorf("lock room inventory: %w", err)
	}

	holding, err := repo.Reservation.FindHoldingLodging(ctx, []uuid.UUID{roomType.ID}, plan.checkIn, plan.checkOut, now)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	result, err := availability.Lodging(roomType.ID, plan.checkIn, plan.checkOut, inventory, holding, now)
	if err != nil {
		return nil, err
	}

	if binding, short := result.BindingConstraint(plan.rooms); short {
		date := binding.Date
		return nil, &InsufficientInventoryError{
			Date:      &date,
			Requested: plan.rooms,
			Available: binding.Available,
		}
	}

	items := plan.items
	if len(items) == 0 {
		for _, night := range availability.EachNight(plan.checkIn, plan.checkOut) {
			items = append(items, entity.ReservationItem{
				Description: fmt.Sprintf("%s, night of %s", roomType.Name, utils.FormatDate(night)),
				Date:        night,
				UnitPrice:   roomType.BasePrice,
				Quantity:    plan.rooms,
				Subtotal:    roomType.BasePrice * int64(plan.rooms),
			})
		}
	}

	var total int64
	for _, item := range items {
		total += item.Subtotal
	}
	if err := checkTotal(clientTotal, total); err != nil {
		return nil, err
	}

	checkOut := plan.checkOut
	locationID := roomType.LocationID
	reservation := s.newReservation(userID, entity.ReservationTypeLodging, now)
	reservation.LocationID = &locationID
	reservation.RoomTypeID = &roomType.ID
	reservation.CheckInDate = plan.checkIn
	reservation.CheckOutDate = &checkOut
	reservation.RoomCount = plan.rooms
	reservation.TotalPrice = total
	reservation.SpecialRequests = specialRequests

	if err := s.insert(ctx, repo, reservation, items, nil, now); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) holdTeeTime(ctx context.Context, repo *repository.Repository, userID uuid.UUID, plan *bookingPlan, clientTotal *int64, specialRequests *string, now time.Time) (*entity.Reservation, error) {
	slot, err := repo.TeeTimeSlot.LockByID(ctx, plan.slotID)
	if err != nil {
		return nil, fmt.Errorf("lock tee time slot: %w", err)
	}
	if slot == nil || slot.CourseID != *plan.courseID {
		return nil, fmt.Errorf("tee time slot %s on course %s: %w", plan.slotID.String(), plan.courseID.String(), ErrNotFound)
	}
	if !plan.checkIn.IsZero() && !plan.checkIn.Equal(slot.Date) {
		return nil, newValidationError("check_in_date", "Does not match the tee time date")
	}

	links, err := repo.ReservationTeeTime.FindHoldingBySlotIDs(ctx, []uuid.UUID{slot.ID}, now)
	if err != nil {
		return nil, fmt.Errorf("load booked tee times: %w", err)
	}

	sa := availability.Slot(slot, availability.SumPlayers(links)[slot.ID])
	if !sa.Admits(plan.players) {
		slotID, date := slot.ID, slot.Date
		return nil, &InsufficientInventoryError{
			Date:      &date,
			SlotID:    &slotID,
			Requested: plan.players,
			Available: sa.Available,
		}
	}

	total := sa.TotalFor(plan.players)
	if err := checkTotal(clientTotal, total); err != nil {
		return nil, err
	}

	reservation := s.newReservation(userID, entity.ReservationTypeTeeTime, now)
	reservation.LocationID = plan.locationID
	reservation.CourseID = &slot.CourseID
	reservation.CheckInDate = slot.Date
	reservation.PlayerCount = plan.players
	reservation.TotalPrice = total
	reservation.SpecialRequests = specialRequests

	items := []entity.ReservationItem{{
		Description: fmt.Sprintf("Tee time %s on %s", slot.TeeTime, utils.FormatDate(slot.Date)),
		Date:        slot.Date,
		UnitPrice:   sa.EffectivePrice,
		Quantity:    plan.players,
		Subtotal:    total,
	}}
	links = []entity.ReservationTeeTime{{
		TeeTimeSlotID: slot.ID,
		PlayerCount:   plan.players,
	}}

	if err := s.insert(ctx, repo, reservation, items, links, now); err != nil {
		return nil, err
	}
	return reservation, nil
}

func checkTotal(clientTotal *int64, computed int64) error {
	if clientTotal != nil && *clientTotal != computed {
		return fmt.Errorf("client total %d, computed %d: %w", *clientTotal, computed, ErrPriceMismatch)
	}
	return nil
}

func (s *reservationService) newReservation(userID uuid.UUID, resType entity.ReservationType, now time.Time) *entity.Reservation {
	id := uuid.New()
	holdExpiresAt := now.Add(s.hold)
	return &entity.Reservation{
		Base: entity.Base{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:          utils.GenerateReservationCode(now, id.String()),
		Type:          resType,
		UserID:        userID,
		Status:        entity.ReservationStatusPending,
		HoldExpiresAt: &holdExpiresAt,
	}
}

// insert writes the reservation with its items and tee-time links; the
// caller's transaction makes the three writes all-or-nothing.
func (s *reservationService) insert(ctx context.Context, repo *repository.Repository, reservation *entity.Reservation, items []entity.ReservationItem, links []entity.ReservationTeeTime, now time.Time) error {
	if err := repo.Reservation.Create(ctx, reservation); err != nil {
		return err
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].CreatedAt = now
		items[i].ReservationID = reservation.ID
	}
	if err := repo.ReservationItem.CreateBatch(ctx, items); err != nil {
		return err
	}

	for i := range links {
		links[i].ID = uuid.New()
		links[i].CreatedAt = now
		links[i].ReservationID = reservation.ID
	}
	if len(links) > 0 {
		if err := repo.ReservationTeeTime.CreateBatch(ctx, links); err != nil {
			return err
		}
	}

	reservation.Items = items
	reservation.TeeTimes = links
	return nil
}

func (s *reservationService) StartPayment(ctx context.Context, userID, reservationID uuid.UUID) (resp *response.PaymentIntentResponse, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.StartPayment")
	defer func() { endSpan(span, err) }()

	reservation, err := s.findOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if reservation.HoldExpired(now) {
		s.expire(ctx, reservation, now)
		return nil, fmt.Errorf("reservation %s: %w", reservationID.String(), ErrHoldExpired)
	}
	if reservation.Status != entity.ReservationStatusPending {
		s.log.Error("Payment requested for non-pending reservation",
			zap.String("reservation_id", reservationID.String()),
			zap.String("status", string(reservation.Status)),
		)
		return nil, fmt.Errorf("cannot pay reservation in status %s: %w", reservation.Status, ErrInvalidStateTransition)
	}

	intent, err := s.payment.CreatePaymentIntent(ctx, gateway.PaymentIntentRequest{
		ReservationID: reservation.ID,
		Amount:        reservation.TotalPrice,
		Description:   fmt.Sprintf("Reservation %s", reservation.Code),
	})
	if err != nil {
		s.log.Warn("Payment intent failed",
			zap.String("reservation_id", reservationID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
	}

	return &response.PaymentIntentResponse{
		ReservationID:    reservation.ID.String(),
		Amount:           reservation.TotalPrice,
		ClientSecret:     intent.ClientSecret,
		PaymentReference: intent.PaymentReference,
		HoldExpiresAt:    reservation.HoldExpiresAt,
	}, nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, userID, reservationID uuid.UUID, req *request.ConfirmReservationRequest) (resp *response.ReservationResponse, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.ConfirmReservation")
	defer func() { endSpan(span, err) }()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	reservation, err := s.findOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	confirmed, err := s.repo.Reservation.Confirm(ctx, reservationID, req.PaymentReference, now)
	if err != nil {
		return nil, fmt.Errorf("confirm reservation: %w", err)
	}

	if !confirmed {
		current, err := s.repo.Reservation.FindByID(ctx, reservationID)
		if err != nil {
			return nil, fmt.Errorf("reload reservation: %w", err)
		}
		if current == nil {
			current = reservation
		}
		if current.HoldExpired(now) {
			s.expire(ctx, current, now)
			s.log.Info("Confirm arrived after hold expired", zap.String("reservation_id", reservationID.String()))
			return nil, fmt.Errorf("reservation %s: %w", reservationID.String(), ErrHoldExpired)
		}
		s.log.Error("Invalid confirm transition",
			zap.String("reservation_id", reservationID.String()),
			zap.String("status", string(current.Status)),
		)
		return nil, fmt.Errorf("cannot confirm reservation in status %s: %w", current.Status, ErrInvalidStateTransition)
	}

	metrics.ReservationTransitions.WithLabelValues(string(entity.ReservationStatusPending), string(entity.ReservationStatusConfirmed)).Inc()
	s.log.Info("Reservation confirmed",
		zap.String("reservation_id", reservationID.String()),
		zap.String("payment_reference", req.PaymentReference),
	)

	return s.reload(ctx, reservationID, gateway.EventReservationConfirmed, "")
}

func (s *reservationService) CancelReservation(ctx context.Context, userID, reservationID uuid.UUID, req *request.CancelReservationRequest) (resp *response.ReservationResponse, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.CancelReservation")
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultCancellationReason
	}

	now := s.now()
	var from entity.ReservationStatus
	refunded := false

	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		reservation, err := repo.Reservation.LockByID(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}
		if reservation == nil || reservation.UserID != userID {
			return fmt.Errorf("reservation %s: %w", reservationID.String(), ErrNotFound)
		}

		from = reservation.Status
		var refundReference *string

		switch reservation.Status {
		case entity.ReservationStatusCancelled:
			return nil
		case entity.ReservationStatusConfirmed:
			paymentReference := ""
			if reservation.PaymentReference != nil {
				paymentReference = *reservation.PaymentReference
			}
			refund, err := s.payment.Refund(ctx, gateway.RefundRequest{
				ReservationID:    reservation.ID,
				PaymentReference: paymentReference,
				Amount:           reservation.TotalPrice,
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
			}
			refundReference = &refund.RefundReference
			refunded = true
		}

		ok, err := repo.Reservation.Cancel(ctx, reservationID, reservation.Status, reason, refundReference, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("cannot cancel reservation in status %s: %w", reservation.Status, ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUpstreamPayment):
			s.log.Warn("Refund failed, reservation left confirmed",
				zap.String("reservation_id", reservationID.String()),
				zap.Error(err),
			)
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidStateTransition):
			s.log.Error("Failed to cancel reservation",
				zap.String("reservation_id", reservationID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if from == entity.ReservationStatusCancelled {
		return s.reload(ctx, reservationID, "", "")
	}

	metrics.ReservationTransitions.WithLabelValues(string(from), string(entity.ReservationStatusCancelled)).Inc()
	if refunded {
		metrics.RefundsIssued.Inc()
	}
	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservationID.String()),
		zap.String("from", string(from)),
		zap.String("reason", reason),
		zap.Bool("refunded", refunded),
	)

	return s.reload(ctx, reservationID, gateway.EventReservationCancelled, reason)
}

func (s *reservationService) GetReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error) {
	reservation, err := s.findOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if err := s.loadLines(ctx, reservation); err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) ListUserReservations(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	limit := req.Limit()
	offset := req.Offset()

	reservations, err := s.repo.Reservation.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	data := make([]response.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		data = append(data, response.ReservationToResponse(r))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(data, page, limit, int64(total)), nil
}

func (s *reservationService) ExpireHolds(ctx context.Context) (int, error) {
	now := s.now()

	expired, err := s.repo.Reservation.ExpireHolds(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire holds: %w", err)
	}

	for _, reservation := range expired {
		metrics.HoldsExpired.Inc()
		s.publish(ctx, gateway.EventReservationExpired, reservation, entity.CancellationReasonHoldExpired)
	}

	return len(expired), nil
}

// expire cancels a single lapsed hold ahead of the sweeper. Losing the race
// to the sweeper or a concurrent cancel is fine.
func (s *reservationService) expire(ctx context.Context, reservation *entity.Reservation, now time.Time) {
	ok, err := s.repo.Reservation.Cancel(ctx, reservation.ID, entity.ReservationStatusPending, entity.CancellationReasonHoldExpired, nil, now)
	if err != nil {
		s.log.Warn("Failed to expire hold", zap.String("reservation_id", reservation.ID.String()), zap.Error(err))
		return
	}
	if ok {
		metrics.HoldsExpired.Inc()
		s.publish(ctx, gateway.EventReservationExpired, reservation, entity.CancellationReasonHoldExpired)
	}
}

func (s *reservationService) findOwned(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Reservation, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	if reservation == nil || reservation.UserID != userID {
		s.log.Error("Reservation not found",
			zap.String("reservation_id", reservationID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("reservation %s: %w", reservationID.String(), ErrNotFound)
	}
	return reservation, nil
}

func (s *reservationService) loadLines(ctx context.Context, reservation *entity.Reservation) error {
	items, err := s.repo.ReservationItem.FindByReservationID(ctx, reservation.ID)
	if err != nil {
		return fmt.Errorf("load reservation items: %w", err)
	}
	links, err := s.repo.ReservationTeeTime.FindByReservationID(ctx, reservation.ID)
	if err != nil {
		return fmt.Errorf("load reservation tee times: %w", err)
	}
	reservation.Items = items
	reservation.TeeTimes = links
	return nil
}

// reload reads the reservation back and publishes event when set.
func (s *reservationService) reload(ctx context.Context, reservationID uuid.UUID, event gateway.EventType, reason string) (*response.ReservationResponse, error) {
	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID.String(), ErrNotFound)
	}
	if err := s.loadLines(ctx, reservation); err != nil {
		return nil, err
	}

	if event != "" {
		s.publish(ctx, event, reservation, reason)
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) publish(ctx context.Context, eventType gateway.EventType, reservation *entity.Reservation, reason string) {
	event := gateway.ReservationEvent{
		Type:          eventType,
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Status:        string(reservation.Status),
		Reason:        reason,
		TotalPrice:    reservation.TotalPrice,
		OccurredAt:    s.now().UTC(),
	}
	if eventType == gateway.EventReservationExpired {
		event.Status = string(entity.ReservationStatusCancelled)
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			zap.String("type", string(eventType)),
			zap.String("reservation_id", reservation.ID.String()),
			zap.Error(err),
		)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		var short *InsufficientInventoryError
		if !errors.As(err, &short) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
