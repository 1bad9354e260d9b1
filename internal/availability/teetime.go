package availability

import (
	"golf-booking/internal/data/entity"

	"github.com/google/uuid"
)

// SlotAvailability annotates a tee time with players already booked.
type SlotAvailability struct {
	Slot           *entity.TeeTimeSlot
	BookedPlayers  int
	Available      int
	EffectivePrice int64
}

// SumPlayers totals player_count per slot over links of reservations that
// still hold capacity.
func SumPlayers(links []entity.ReservationTeeTime) map[uuid.UUID]int {
	booked := make(map[uuid.UUID]int, len(links))
	for _, l := range links {
		booked[l.TeeTimeSlotID] += l.PlayerCount
	}
	return booked
}

// Slot derives availability for a single slot. Blocked slots have none.
func Slot(slot *entity.TeeTimeSlot, bookedPlayers int) SlotAvailability {
	sa := SlotAvailability{
		Slot:           slot,
		BookedPlayers:  bookedPlayers,
		EffectivePrice: slot.EffectivePrice(),
	}
	if !slot.IsBlocked {
		sa.Available = max(0, slot.MaxPlayers-bookedPlayers)
	}
	return sa
}

// TeeTimes returns every non-blocked slot annotated with bookings, in input order.
func TeeTimes(slots []*entity.TeeTimeSlot, booked map[uuid.UUID]int) []SlotAvailability {
	out := make([]SlotAvailability, 0, len(slots))
	for _, s := range slots {
		if s.IsBlocked {
			continue
		}
		out = append(out, Slot(s, booked[s.ID]))
	}
	return out
}

// Admits reports whether players more golfers fit on the slot.
func (s SlotAvailability) Admits(players int) bool {
	return players > 0 && !s.Slot.IsBlocked && s.Available >= players
}

// TotalFor is effective price times players.
func (s SlotAvailability) TotalFor(players int) int64 {
	return s.EffectivePrice * int64(players)
}
