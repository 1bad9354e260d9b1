package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/internal/data/memstore"
	"golf-booking/internal/dto/request"
	"golf-booking/internal/gateway"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakePayment struct {
	mu        sync.Mutex
	intents   []gateway.PaymentIntentRequest
	refunds   []gateway.RefundRequest
	intentErr error
	refundErr error
}

func (p *fakePayment) CreatePaymentIntent(_ context.Context, req gateway.PaymentIntentRequest) (*gateway.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.intentErr != nil {
		return nil, p.intentErr
	}
	p.intents = append(p.intents, req)
	return &gateway.PaymentIntent{ClientSecret: "cs_" + req.ReservationID.String(), PaymentReference: "pi_" + req.ReservationID.String()}, nil
}

func (p *fakePayment) Refund(_ context.Context, req gateway.RefundRequest) (*gateway.Refund, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refundErr != nil {
		return nil, p.refundErr
	}
	p.refunds = append(p.refunds, req)
	return &gateway.Refund{RefundReference: "re_" + req.ReservationID.String()}, nil
}

func (p *fakePayment) refundCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refunds)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []gateway.ReservationEvent
}

func (r *recordingEvents) Publish(_ context.Context, event gateway.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEvents) count(t gateway.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recordingEvents) last(t gateway.EventType) gateway.ReservationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i]
		}
	}
	return gateway.ReservationEvent{}
}

type fixture struct {
	store   *memstore.Store
	clock   *fakeClock
	payment *fakePayment
	events  *recordingEvents
	svc     *Service
	user    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:   memstore.New(),
		clock:   &fakeClock{now: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)},
		payment: &fakePayment{},
		events:  &recordingEvents{},
		user:    uuid.New(),
	}

	config := &utils.Config{Booking: utils.BookingConfig{HoldMinutes: 15, SweepInterval: time.Minute}}
	f.svc = NewService(Dependencies{
		Repo:    f.store.Repository(),
		Tx:      f.store,
		Payment: f.payment,
		Events:  f.events,
		Now:     f.clock.Now,
	}, config, zap.NewNop())

	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedRoomType adds an active room type with the same inventory on every
// night of [from, to).
func (f *fixture) seedRoomType(name string, basePrice int64, total, blocked int, from, to time.Time) *entity.RoomType {
	rt := entity.RoomType{
		Base:       entity.Base{ID: uuid.New()},
		LocationID: uuid.New(),
		Name:       name,
		BasePrice:  basePrice,
		IsActive:   true,
	}
	f.store.AddRoomType(rt)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		f.store.SetInventory(entity.RoomInventory{RoomTypeID: rt.ID, Date: d, TotalUnits: total, BlockedUnits: blocked})
	}
	return &rt
}

func (f *fixture) seedSlot(maxPlayers int, price int64, override *int64) *entity.TeeTimeSlot {
	slot := entity.TeeTimeSlot{
		Base:           entity.Base{ID: uuid.New()},
		CourseID:       uuid.New(),
		Date:           date(2025, 6, 1),
		TeeTime:        "07:30",
		MaxPlayers:     maxPlayers,
		PricePerPlayer: price,
		PriceOverride:  override,
	}
	f.store.AddTeeTimeSlot(slot)
	return &slot
}

func lodgingRequest(rt *entity.RoomType, checkIn, checkOut string, rooms int) *request.CreateReservationRequest {
	return &request.CreateReservationRequest{
		Type:         "lodging",
		RoomTypeID:   rt.ID.String(),
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomCount:    rooms,
	}
}

func teeTimeRequest(slot *entity.TeeTimeSlot, players int) *request.CreateReservationRequest {
	return &request.CreateReservationRequest{
		Type:          "tee_time",
		CourseID:      slot.CourseID.String(),
		TeeTimeSlotID: slot.ID.String(),
		PlayerCount:   players,
	}
}

func (f *fixture) mustCreate(t *testing.T, req *request.CreateReservationRequest) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", req)
	if err != nil {
		t.Fatalf("expected reservation to be created, got %v", err)
	}
	return uuid.MustParse(resp.ID)
}

func (f *fixture) mustConfirm(t *testing.T, id uuid.UUID) {
	t.Helper()
	_, err := f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_test"})
	if err != nil {
		t.Fatalf("expected confirm to succeed, got %v", err)
	}
}

func (f *fixture) reservation(t *testing.T, id uuid.UUID) *entity.Reservation {
	t.Helper()
	r, err := f.store.Repository().Reservation.FindByID(context.Background(), id)
	if err != nil || r == nil {
		t.Fatalf("reservation %s not found: %v", id, err)
	}
	return r
}

func expectInsufficient(t *testing.T, err error) *InsufficientInventoryError {
	t.Helper()
	var short *InsufficientInventoryError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientInventoryError, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected errors.Is ErrInsufficientInventory")
	}
	return short
}

func int64p(v int64) *int64 { return &v }
