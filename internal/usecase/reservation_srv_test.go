package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/internal/dto/request"
	"golf-booking/internal/gateway"

	"github.com/google/uuid"
)

func TestCreateLodging_ReducesAvailabilityAndRejectsOverbooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 4))

	resp, err := f.svc.Reservation.CreateReservation(ctx, f.user, "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 2))
	if err != nil {
		t.Fatalf("expected first booking to succeed, got %v", err)
	}
	if resp.Status != entity.ReservationStatusPending {
		t.Fatalf("expected pending, got %s", resp.Status)
	}
	wantHold := f.clock.Now().Add(15 * time.Minute)
	if resp.HoldExpiresAt == nil || !resp.HoldExpiresAt.Equal(wantHold) {
		t.Fatalf("expected hold until %v, got %v", wantHold, resp.HoldExpiresAt)
	}
	if resp.TotalPrice != 20000*2*2 {
		t.Fatalf("expected total 80000, got %d", resp.TotalPrice)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected one item per night, got %d", len(resp.Items))
	}

	avail, err := f.svc.Availability.LodgingAvailability(ctx, &request.LodgingAvailabilityRequest{
		RoomTypeID: rt.ID.String(), CheckIn: "2025-06-01", CheckOut: "2025-06-03", Rooms: 1,
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	for _, d := range avail.Dates {
		if d.Available != 1 {
			t.Fatalf("expected 1 available on %s, got %d", d.Date, d.Available)
		}
	}

	_, err = f.svc.Reservation.CreateReservation(ctx, f.user, "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 2))
	short := expectInsufficient(t, err)
	if short.Date == nil || !short.Date.Equal(date(2025, 6, 1)) {
		t.Fatalf("expected binding date 2025-06-01, got %v", short.Date)
	}
	if short.Requested != 2 || short.Available != 1 {
		t.Fatalf("expected 1 of 2 available, got %d of %d", short.Available, short.Requested)
	}
	if n := len(f.store.Reservations()); n != 1 {
		t.Fatalf("expected failed booking to leave no row, got %d reservations", n)
	}
}

func TestCreateLodging_MissingInventoryRowIsBinding(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Cottage", 15000, 4, 0, date(2025, 6, 1), date(2025, 6, 2))

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	short := expectInsufficient(t, err)
	if !short.Date.Equal(date(2025, 6, 2)) || short.Available != 0 {
		t.Fatalf("expected 2025-06-02 with 0 available, got %v / %d", short.Date, short.Available)
	}
}

func TestCreateLodging_ConcurrentRequestsForLastUnit(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 1, 0, date(2025, 6, 1), date(2025, 6, 3))

	const callers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		shortages int
		others    []error
	)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Reservation.CreateReservation(context.Background(), uuid.New(), "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrInsufficientInventory):
				shortages++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 1 || shortages != callers-1 {
		t.Fatalf("expected exactly 1 success and %d shortages, got %d and %d", callers-1, successes, shortages)
	}
}

func TestCreateTeeTime_ConcurrentRequestsShareSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 5000, nil)

	const callers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		shortages int
		others    []error
	)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Reservation.CreateReservation(context.Background(), uuid.New(), "", teeTimeRequest(slot, 2))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrInsufficientInventory):
				shortages++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 2 || shortages != callers-2 {
		t.Fatalf("expected exactly 2 successes and %d shortages, got %d and %d", callers-2, successes, shortages)
	}

	booked := 0
	for _, r := range f.store.Reservations() {
		if r.HoldsCapacity(f.clock.Now()) {
			booked += r.PlayerCount
		}
	}
	if booked != 4 {
		t.Fatalf("expected 4 players held on the slot, got %d", booked)
	}
}

func TestConfirmRacingCancel(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 1, 0, date(2025, 6, 1), date(2025, 6, 3))

	for i := 0; i < 50; i++ {
		id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
		refundsBefore := f.payment.refundCount()

		var (
			wg         sync.WaitGroup
			confirmErr error
			cancelErr  error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, confirmErr = f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_race"})
		}()
		go func() {
			defer wg.Done()
			<-start
			_, cancelErr = f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{})
		}()
		close(start)
		wg.Wait()

		if cancelErr != nil {
			t.Fatalf("iteration %d: expected cancel to succeed, got %v", i, cancelErr)
		}

		r := f.reservation(t, id)
		if r.Status != entity.ReservationStatusCancelled {
			t.Fatalf("iteration %d: expected cancelled, got %s", i, r.Status)
		}

		refunds := f.payment.refundCount() - refundsBefore
		if confirmErr == nil {
			// confirm won the pending row, so the cancel had to refund it
			if refunds != 1 || r.RefundReference == nil || r.ConfirmedAt == nil {
				t.Fatalf("iteration %d: confirm then cancel must refund once, got %d refunds", i, refunds)
			}
			continue
		}

		if !errors.Is(confirmErr, ErrInvalidStateTransition) {
			t.Fatalf("iteration %d: expected InvalidStateTransition for losing confirm, got %v", i, confirmErr)
		}
		if refunds != 0 || r.RefundReference != nil || r.ConfirmedAt != nil {
			t.Fatalf("iteration %d: cancel of a pending hold must not refund, got %d refunds", i, refunds)
		}
	}
}

func TestCreateTeeTime_FullSlotRejectsNextPlayer(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7500, nil)

	resp, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", teeTimeRequest(slot, 4))
	if err != nil {
		t.Fatalf("expected 4 players to fit, got %v", err)
	}
	if resp.TotalPrice != 30000 {
		t.Fatalf("expected 4 x 7500, got %d", resp.TotalPrice)
	}
	if len(resp.TeeTimes) != 1 || resp.TeeTimes[0].PlayerCount != 4 {
		t.Fatalf("expected one tee time link for 4 players, got %+v", resp.TeeTimes)
	}
	if resp.CheckInDate != "2025-06-01" {
		t.Fatalf("expected check-in to be the tee date, got %s", resp.CheckInDate)
	}

	_, err = f.svc.Reservation.CreateReservation(context.Background(), f.user, "", teeTimeRequest(slot, 1))
	short := expectInsufficient(t, err)
	if short.SlotID == nil || *short.SlotID != slot.ID || short.Available != 0 {
		t.Fatalf("expected slot %s with 0 available, got %+v", slot.ID, short)
	}
}

func TestCreateTeeTime_UsesPriceOverride(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7000, int64p(5000))

	resp, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", teeTimeRequest(slot, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.TotalPrice != 15000 {
		t.Fatalf("expected override price 5000 x 3, got %d", resp.TotalPrice)
	}
	if resp.Items[0].UnitPrice != 5000 {
		t.Fatalf("expected item unit price 5000, got %d", resp.Items[0].UnitPrice)
	}
}

func TestCreate_PriceMismatchRejected(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7000, int64p(5000))

	req := teeTimeRequest(slot, 2)
	req.TotalPrice = int64p(14000)

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", req)
	if !errors.Is(err, ErrPriceMismatch) {
		t.Fatalf("expected ErrPriceMismatch, got %v", err)
	}
}

func TestCreate_ClientItemsMustAddUp(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))

	req := lodgingRequest(rt, "2025-06-01", "2025-06-03", 1)
	req.Items = []request.ReservationItemRequest{
		{Description: "Night 1", Date: "2025-06-01", UnitPrice: 18000, Quantity: 1, Subtotal: 18000},
		{Description: "Night 2", Date: "2025-06-02", UnitPrice: 18000, Quantity: 1, Subtotal: 17000},
	}

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["items[1].subtotal"]; !ok {
		t.Fatalf("expected items[1].subtotal to be flagged, got %v", verr.Fields)
	}

	req.Items[1].Subtotal = 18000
	req.TotalPrice = int64p(36000)
	resp, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", req)
	if err != nil {
		t.Fatalf("expected client items to be accepted, got %v", err)
	}
	if resp.TotalPrice != 36000 || len(resp.Items) != 2 {
		t.Fatalf("expected total from items, got %d with %d items", resp.TotalPrice, len(resp.Items))
	}
}

func TestCreate_RequiresCaller(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))

	_, err := f.svc.Reservation.CreateReservation(context.Background(), uuid.Nil, "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreate_InvalidRange(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", lodgingRequest(rt, "2025-06-03", "2025-06-03", 1))
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCreate_UnknownRoomType(t *testing.T) {
	f := newFixture(t)
	rt := &entity.RoomType{Base: entity.Base{ID: uuid.New()}}

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "", lodgingRequest(rt, "2025-06-01", "2025-06-02", 1))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_IdempotencyKeyReplaysResult(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	req := lodgingRequest(rt, "2025-06-01", "2025-06-03", 1)

	first, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "key-1", req)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "key-1", req)
	if err != nil {
		t.Fatalf("replayed create: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected replay to return %s, got %s", first.ID, second.ID)
	}
	if n := len(f.store.Reservations()); n != 1 {
		t.Fatalf("expected a single reservation, got %d", n)
	}
}

func TestCreate_IdempotencyKeyReleasedOnFailure(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 1, 0, date(2025, 6, 1), date(2025, 6, 3))

	_, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "key-2", lodgingRequest(rt, "2025-06-01", "2025-06-03", 2))
	expectInsufficient(t, err)

	if _, err := f.svc.Reservation.CreateReservation(context.Background(), f.user, "key-2", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1)); err != nil {
		t.Fatalf("expected retry with the same key to run, got %v", err)
	}
}

func TestConfirm_OnlyOnceFromPending(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	resp, err := f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_1"})
	if err != nil {
		t.Fatalf("expected confirm to succeed, got %v", err)
	}
	if resp.Status != entity.ReservationStatusConfirmed || resp.HoldExpiresAt != nil {
		t.Fatalf("expected confirmed without hold, got %s / %v", resp.Status, resp.HoldExpiresAt)
	}
	if resp.PaymentReference == nil || *resp.PaymentReference != "pi_1" {
		t.Fatalf("expected payment reference pi_1, got %v", resp.PaymentReference)
	}

	_, err = f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_2"})
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if got := f.reservation(t, id).PaymentReference; got == nil || *got != "pi_1" {
		t.Fatalf("expected second confirm to leave pi_1, got %v", got)
	}
	if n := f.events.count(gateway.EventReservationConfirmed); n != 1 {
		t.Fatalf("expected one confirmed event, got %d", n)
	}
}

func TestConfirm_CancelledReservation(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	if _, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_1"})
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestConfirm_AfterHoldExpired(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	f.clock.Advance(16 * time.Minute)

	_, err := f.svc.Reservation.ConfirmReservation(context.Background(), f.user, id, &request.ConfirmReservationRequest{PaymentReference: "pi_1"})
	if !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("expected ErrHoldExpired, got %v", err)
	}

	r := f.reservation(t, id)
	if r.Status != entity.ReservationStatusCancelled || r.CancellationReason == nil || *r.CancellationReason != entity.CancellationReasonHoldExpired {
		t.Fatalf("expected cancelled with hold_expired, got %s / %v", r.Status, r.CancellationReason)
	}
}

func TestConfirm_OtherUsersReservationIsNotFound(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	_, err := f.svc.Reservation.ConfirmReservation(context.Background(), uuid.New(), id, &request.ConfirmReservationRequest{PaymentReference: "pi_1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancel_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	first, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{Reason: "change of plans"})
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if first.Status != entity.ReservationStatusCancelled || first.CancelledAt == nil {
		t.Fatalf("expected cancelled with timestamp, got %s / %v", first.Status, first.CancelledAt)
	}

	f.clock.Advance(time.Minute)

	second, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{Reason: "again"})
	if err != nil {
		t.Fatalf("expected second cancel to succeed, got %v", err)
	}
	if !second.CancelledAt.Equal(*first.CancelledAt) || *second.CancellationReason != "change of plans" {
		t.Fatalf("expected second cancel to change nothing, got %v / %v", second.CancelledAt, *second.CancellationReason)
	}
	if n := f.events.count(gateway.EventReservationCancelled); n != 1 {
		t.Fatalf("expected one cancelled event, got %d", n)
	}
	if f.payment.refundCount() != 0 {
		t.Fatalf("expected no refund for a pending reservation")
	}
}

func TestCancel_ConfirmedRefundsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	f.mustConfirm(t, id)

	resp, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{})
	if err != nil {
		t.Fatalf("cancel confirmed: %v", err)
	}
	if resp.RefundReference == nil || *resp.RefundReference != "re_"+id.String() {
		t.Fatalf("expected refund reference, got %v", resp.RefundReference)
	}

	if _, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{}); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}

	if n := f.payment.refundCount(); n != 1 {
		t.Fatalf("expected exactly one refund, got %d", n)
	}
	refund := f.payment.refunds[0]
	if refund.ReservationID != id || refund.Amount != 40000 || refund.PaymentReference != "pi_test" {
		t.Fatalf("unexpected refund request %+v", refund)
	}
}

func TestCancel_RefundFailureKeepsConfirmed(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 3, 0, date(2025, 6, 1), date(2025, 6, 3))
	id := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	f.mustConfirm(t, id)

	f.payment.refundErr = errors.New("provider down")
	_, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{})
	if !errors.Is(err, ErrUpstreamPayment) {
		t.Fatalf("expected ErrUpstreamPayment, got %v", err)
	}
	if status := f.reservation(t, id).Status; status != entity.ReservationStatusConfirmed {
		t.Fatalf("expected reservation to stay confirmed, got %s", status)
	}

	f.payment.refundErr = nil
	if _, err := f.svc.Reservation.CancelReservation(context.Background(), f.user, id, &request.CancelReservationRequest{}); err != nil {
		t.Fatalf("retry cancel: %v", err)
	}
	if n := f.payment.refundCount(); n != 1 {
		t.Fatalf("expected one refund after retry, got %d", n)
	}
}

func TestStartPayment(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7500, nil)
	id := f.mustCreate(t, teeTimeRequest(slot, 2))

	resp, err := f.svc.Reservation.StartPayment(context.Background(), f.user, id)
	if err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if resp.Amount != 15000 || resp.ClientSecret == "" {
		t.Fatalf("unexpected intent %+v", resp)
	}
	if f.payment.intents[0].Amount != 15000 {
		t.Fatalf("expected provider to be asked for 15000, got %d", f.payment.intents[0].Amount)
	}
}

func TestStartPayment_FailureLeavesHoldUntouched(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7500, nil)
	id := f.mustCreate(t, teeTimeRequest(slot, 2))
	before := f.reservation(t, id)

	f.payment.intentErr = errors.New("timeout")
	_, err := f.svc.Reservation.StartPayment(context.Background(), f.user, id)
	if !errors.Is(err, ErrUpstreamPayment) {
		t.Fatalf("expected ErrUpstreamPayment, got %v", err)
	}

	after := f.reservation(t, id)
	if after.Status != entity.ReservationStatusPending || !after.HoldExpiresAt.Equal(*before.HoldExpiresAt) {
		t.Fatalf("expected pending with unchanged hold, got %s / %v", after.Status, after.HoldExpiresAt)
	}
}

func TestStartPayment_ExpiredHold(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(4, 7500, nil)
	id := f.mustCreate(t, teeTimeRequest(slot, 2))

	f.clock.Advance(15 * time.Minute)

	_, err := f.svc.Reservation.StartPayment(context.Background(), f.user, id)
	if !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("expected ErrHoldExpired, got %v", err)
	}
	if len(f.payment.intents) != 0 {
		t.Fatalf("expected no payment intent for an expired hold")
	}
}

func TestExpiredHoldReleasesCapacity(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 1, 0, date(2025, 6, 1), date(2025, 6, 3))
	f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	_, err := f.svc.Reservation.CreateReservation(context.Background(), uuid.New(), "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	expectInsufficient(t, err)

	f.clock.Advance(15*time.Minute + time.Second)

	if _, err := f.svc.Reservation.CreateReservation(context.Background(), uuid.New(), "", lodgingRequest(rt, "2025-06-01", "2025-06-03", 1)); err != nil {
		t.Fatalf("expected lapsed hold to free the unit, got %v", err)
	}
}

func TestGetAndListReservations(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 5, 0, date(2025, 6, 1), date(2025, 6, 3))
	slot := f.seedSlot(4, 7500, nil)

	lodgingID := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	f.clock.Advance(time.Second)
	f.mustCreate(t, teeTimeRequest(slot, 2))

	got, err := f.svc.Reservation.GetReservation(context.Background(), f.user, lodgingID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected items to be loaded, got %d", len(got.Items))
	}

	if _, err := f.svc.Reservation.GetReservation(context.Background(), uuid.New(), lodgingID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}

	page, err := f.svc.Reservation.ListUserReservations(context.Background(), f.user, &request.PaginatedRequest{Page: 1, PerPage: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pagination.Total != 2 || page.Pagination.TotalPages != 2 || len(page.Data) != 1 {
		t.Fatalf("unexpected page %+v", page.Pagination)
	}
	if page.Data[0].Type != entity.ReservationTypeTeeTime {
		t.Fatalf("expected newest first, got %s", page.Data[0].Type)
	}
}
