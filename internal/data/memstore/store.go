// Package memstore implements the repository interfaces over process memory.
// Transactions run one at a time against a private copy of the data, which
// replaces the shared copy on commit, so the package mirrors the row-lock
// serialization of the Postgres repositories.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/internal/data/repository"

	"github.com/google/uuid"
)

type inventoryKey struct {
	roomTypeID uuid.UUID
	date       time.Time
}

type state struct {
	roomTypes    map[uuid.UUID]entity.RoomType
	inventory    map[inventoryKey]entity.RoomInventory
	slots        map[uuid.UUID]entity.TeeTimeSlot
	reservations map[uuid.UUID]entity.Reservation
	items        []entity.ReservationItem
	teeTimes     []entity.ReservationTeeTime
	sessions     map[string]entity.Session
}

func newState() *state {
	return &state{
		roomTypes:    make(map[uuid.UUID]entity.RoomType),
		inventory:    make(map[inventoryKey]entity.RoomInventory),
		slots:        make(map[uuid.UUID]entity.TeeTimeSlot),
		reservations: make(map[uuid.UUID]entity.Reservation),
		sessions:     make(map[string]entity.Session),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.roomTypes {
		c.roomTypes[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	c.items = append([]entity.ReservationItem(nil), s.items...)
	c.teeTimes = append([]entity.ReservationTeeTime(nil), s.teeTimes...)
	return c
}

// Store holds the data and serializes every transaction and standalone call.
type Store struct {
	mu sync.Mutex
	st *state

	commits int
}

func New() *Store {
	return &Store{st: newState()}
}

// handle routes a repository call either to an open transaction's copy or,
// under the store lock, to the shared data.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) do(fn func(st *state)) {
	if h.tx != nil {
		fn(h.tx)
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	fn(h.store.st)
}

func (h handle) repository() *repository.Repository {
	return &repository.Repository{
		RoomType:           roomTypeRepo{h},
		RoomInventory:      roomInventoryRepo{h},
		TeeTimeSlot:        teeTimeSlotRepo{h},
		Reservation:        reservationRepo{h},
		ReservationItem:    reservationItemRepo{h},
		ReservationTeeTime: reservationTeeTimeRepo{h},
		Session:            sessionRepo{h},
	}
}

// Repository returns repositories that operate outside any transaction.
func (s *Store) Repository() *repository.Repository {
	return handle{store: s}.repository()
}

func (s *Store) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(handle{store: s, tx: work}.repository()); err != nil {
		return err
	}

	s.st = work
	s.commits++
	return nil
}

// Commits reports how many transactions have committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) AddRoomType(rt entity.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.roomTypes[rt.ID] = rt
}

func (s *Store) SetInventory(inv entity.RoomInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.inventory[inventoryKey{inv.RoomTypeID, inv.Date}] = inv
}

func (s *Store) AddTeeTimeSlot(slot entity.TeeTimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.slots[slot.ID] = slot
}

func (s *Store) AddSession(session entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sessions[session.Token] = session
}

// PutReservation inserts or replaces a reservation row directly.
func (s *Store) PutReservation(r entity.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Items, r.TeeTimes = nil, nil
	s.st.reservations[r.ID] = r
}

// Reservations returns every stored reservation ordered by creation time.
func (s *Store) Reservations() []entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Reservation, 0, len(s.st.reservations))
	for _, r := range s.st.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
