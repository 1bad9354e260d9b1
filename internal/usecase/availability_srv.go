package usecase

import (
	"context"
	"fmt"
	"time"

	"golf-booking/internal/availability"
	"golf-booking/internal/data/entity"
	"golf-booking/internal/data/repository"
	"golf-booking/internal/dto/request"
	"golf-booking/internal/dto/response"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	LodgingAvailability(ctx context.Context, req *request.LodgingAvailabilityRequest) (*response.LodgingAvailabilityResponse, error)
	LocationAvailability(ctx context.Context, req *request.LocationAvailabilityRequest) (*response.LocationAvailabilityResponse, error)
	TeeTimeAvailability(ctx context.Context, req *request.TeeTimeAvailabilityRequest) (*response.TeeTimeAvailabilityResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, now func() time.Time, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) LodgingAvailability(ctx context.Context, req *request.LodgingAvailabilityRequest) (*response.LodgingAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	roomTypeID := uuid.MustParse(req.RoomTypeID)
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	roomType, err := s.repo.RoomType.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("find room type: %w", err)
	}
	if roomType == nil || !roomType.IsActive {
		s.log.Error("Room type not found", zap.String("room_type_id", req.RoomTypeID))
		return nil, fmt.Errorf("room type %s: %w", req.RoomTypeID, ErrNotFound)
	}

	results, err := s.lodging(ctx, []*entity.RoomType{roomType}, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	resp := response.LodgingToResponse(roomType, results[0], req.Rooms)
	return &resp, nil
}

func (s *availabilityService) LocationAvailability(ctx context.Context, req *request.LocationAvailabilityRequest) (*response.LocationAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	locationID := uuid.MustParse(req.LocationID)
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	roomTypes, err := s.repo.RoomType.FindActiveByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("find room types: %w", err)
	}
	if len(roomTypes) == 0 {
		s.log.Error("No active room types at location", zap.String("location_id", req.LocationID))
		return nil, fmt.Errorf("location %s: %w", req.LocationID, ErrNotFound)
	}

	results, err := s.lodging(ctx, roomTypes, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	resp := &response.LocationAvailabilityResponse{
		LocationID: locationID.String(),
		CheckIn:    utils.FormatDate(checkIn),
		CheckOut:   utils.FormatDate(checkOut),
		RoomTypes:  make([]response.LodgingAvailabilityResponse, 0, len(roomTypes)),
	}
	for i, rt := range roomTypes {
		resp.RoomTypes = append(resp.RoomTypes, response.LodgingToResponse(rt, results[i], req.Rooms))
	}

	return resp, nil
}

// lodging loads the ledger and holding reservations for every room type in
// one pass and returns results in roomTypes order.
func (s *availabilityService) lodging(ctx context.Context, roomTypes []*entity.RoomType, checkIn, checkOut time.Time) ([]availability.LodgingResult, error) {
	ids := make([]uuid.UUID, len(roomTypes))
	for i, rt := range roomTypes {
		ids[i] = rt.ID
	}

	now := s.now()

	inventory, err := s.repo.RoomInventory.FindByRange(ctx, ids, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("load room inventory: %w", err)
	}

	reservations, err := s.repo.Reservation.FindHoldingLodging(ctx, ids, checkIn, checkOut, now)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	results := make([]availability.LodgingResult, len(roomTypes))
	for i, id := range ids {
		results[i], err = availability.Lodging(id, checkIn, checkOut, inventory, reservations, now)
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (s *availabilityService) TeeTimeAvailability(ctx context.Context, req *request.TeeTimeAvailabilityRequest) (*response.TeeTimeAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	courseID := uuid.MustParse(req.CourseID)
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, newValidationError("date", err.Error())
	}

	slots, err := s.repo.TeeTimeSlot.FindOpenByCourseAndDate(ctx, courseID, date)
	if err != nil {
		return nil, fmt.Errorf("load tee time slots: %w", err)
	}

	slotIDs := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		slotIDs[i] = slot.ID
	}

	links, err := s.repo.ReservationTeeTime.FindHoldingBySlotIDs(ctx, slotIDs, s.now())
	if err != nil {
		return nil, fmt.Errorf("load booked tee times: %w", err)
	}

	resp := &response.TeeTimeAvailabilityResponse{
		CourseID: courseID.String(),
		Date:     utils.FormatDate(date),
		Players:  req.Players,
		Slots:    []response.TeeTimeSlotResponse{},
	}
	for _, sa := range availability.TeeTimes(slots, availability.SumPlayers(links)) {
		resp.Slots = append(resp.Slots, response.SlotToResponse(sa, req.Players))
	}

	return resp, nil
}

func parseStay(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := utils.ParseDate(checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("check_in", err.Error())
	}
	checkOut, err := utils.ParseDate(checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("check_out", err.Error())
	}
	if err := availability.ValidateRange(checkIn, checkOut); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s to %s: %w", checkInRaw, checkOutRaw, err)
	}
	return checkIn, checkOut, nil
}
