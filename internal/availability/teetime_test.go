package availability

import (
	"testing"

	"golf-booking/internal/data/entity"

	"github.com/google/uuid"
)

func slot(maxPlayers int, price int64, override *int64, blocked bool) *entity.TeeTimeSlot {
	return &entity.TeeTimeSlot{
		Base:           entity.Base{ID: uuid.New()},
		CourseID:       uuid.New(),
		Date:           date("2025-06-01"),
		TeeTime:        "08:10",
		MaxPlayers:     maxPlayers,
		PricePerPlayer: price,
		PriceOverride:  override,
		IsBlocked:      blocked,
	}
}

func TestTeeTimes_SkipsBlockedAndSumsPlayers(t *testing.T) {
	open := slot(4, 5000, nil, false)
	blocked := slot(4, 5000, nil, true)
	links := []entity.ReservationTeeTime{
		{TeeTimeSlotID: open.ID, PlayerCount: 1},
		{TeeTimeSlotID: open.ID, PlayerCount: 2},
	}

	got := TeeTimes([]*entity.TeeTimeSlot{open, blocked}, SumPlayers(links))
	if len(got) != 1 {
		t.Fatalf("expected only the open slot, got %d slots", len(got))
	}
	if got[0].BookedPlayers != 3 || got[0].Available != 1 {
		t.Fatalf("expected booked=3 available=1, got %+v", got[0])
	}
}

func TestSlot_Admits(t *testing.T) {
	s := slot(4, 5000, nil, false)

	tests := []struct {
		booked, players int
		want            bool
	}{
		{0, 4, true},
		{0, 5, false},
		{3, 1, true},
		{4, 1, false},
		{2, 0, false},
	}
	for _, tt := range tests {
		sa := Slot(s, tt.booked)
		if got := sa.Admits(tt.players); got != tt.want {
			t.Fatalf("booked=%d players=%d: expected %v, got %v", tt.booked, tt.players, tt.want, got)
		}
	}
}

func TestSlot_BlockedHasNoCapacity(t *testing.T) {
	sa := Slot(slot(4, 5000, nil, true), 0)
	if sa.Available != 0 || sa.Admits(1) {
		t.Fatalf("expected blocked slot to admit nobody, got %+v", sa)
	}
}

func TestSlot_EffectivePrice(t *testing.T) {
	override := int64(3500)

	plain := Slot(slot(4, 5000, nil, false), 0)
	if plain.EffectivePrice != 5000 || plain.TotalFor(3) != 15000 {
		t.Fatalf("expected base price 5000 and total 15000, got %d and %d", plain.EffectivePrice, plain.TotalFor(3))
	}

	discounted := Slot(slot(4, 5000, &override, false), 0)
	if discounted.EffectivePrice != 3500 || discounted.TotalFor(2) != 7000 {
		t.Fatalf("expected override 3500 and total 7000, got %d and %d", discounted.EffectivePrice, discounted.TotalFor(2))
	}
}
