package usecase

import (
	"context"
	"testing"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/internal/gateway"

	"go.uber.org/zap"
)

func TestExpireHolds_OnlyTouchesLapsedPending(t *testing.T) {
	f := newFixture(t)
	rt := f.seedRoomType("Lodge King", 20000, 5, 0, date(2025, 6, 1), date(2025, 6, 3))

	confirmed := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))
	f.mustConfirm(t, confirmed)
	lapsed := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	f.clock.Advance(10 * time.Minute)
	live := f.mustCreate(t, lodgingRequest(rt, "2025-06-01", "2025-06-03", 1))

	f.clock.Advance(6 * time.Minute)

	n := f.svc.HoldSweeper.Sweep(context.Background())
	if n != 1 {
		t.Fatalf("expected 1 expired hold, got %d", n)
	}

	r := f.reservation(t, lapsed)
	if r.Status != entity.ReservationStatusCancelled || *r.CancellationReason != entity.CancellationReasonHoldExpired {
		t.Fatalf("expected lapsed hold cancelled with hold_expired, got %s", r.Status)
	}
	if s := f.reservation(t, confirmed).Status; s != entity.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed reservation untouched, got %s", s)
	}
	if s := f.reservation(t, live).Status; s != entity.ReservationStatusPending {
		t.Fatalf("expected live hold untouched, got %s", s)
	}

	if n := f.svc.HoldSweeper.Sweep(context.Background()); n != 0 {
		t.Fatalf("expected second sweep to be a no-op, got %d", n)
	}
	if n := f.events.count(gateway.EventReservationExpired); n != 1 {
		t.Fatalf("expected one expired event, got %d", n)
	}

	event := f.events.last(gateway.EventReservationExpired)
	if event.ReservationID != lapsed {
		t.Errorf("expected event for %s, got %s", lapsed, event.ReservationID)
	}
	if event.UserID != f.user {
		t.Errorf("expected event user %s, got %s", f.user, event.UserID)
	}
	if event.TotalPrice != r.TotalPrice || event.TotalPrice == 0 {
		t.Errorf("expected event total %d, got %d", r.TotalPrice, event.TotalPrice)
	}
	if event.Reason != entity.CancellationReasonHoldExpired {
		t.Errorf("expected reason %s, got %q", entity.CancellationReasonHoldExpired, event.Reason)
	}
}

func TestHoldSweeperRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	sweeper := NewHoldSweeper(f.svc.Reservation, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancel")
	}
}
