package memstore

import (
	"context"
	"sort"
	"time"

	"golf-booking/internal/data/entity"

	"github.com/google/uuid"
)

type roomTypeRepo struct{ h handle }

func (r roomTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RoomType, error) {
	var out *entity.RoomType
	r.h.do(func(st *state) {
		if rt, ok := st.roomTypes[id]; ok {
			out = &rt
		}
	})
	return out, nil
}

func (r roomTypeRepo) FindActiveByLocation(_ context.Context, locationID uuid.UUID) ([]*entity.RoomType, error) {
	var out []*entity.RoomType
	r.h.do(func(st *state) {
		for _, rt := range st.roomTypes {
			if rt.LocationID == locationID && rt.IsActive {
				rt := rt
				out = append(out, &rt)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type roomInventoryRepo struct{ h handle }

func (r roomInventoryRepo) FindByRange(_ context.Context, roomTypeIDs []uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error) {
	wanted := make(map[uuid.UUID]bool, len(roomTypeIDs))
	for _, id := range roomTypeIDs {
		wanted[id] = true
	}

	var out []entity.RoomInventory
	r.h.do(func(st *state) {
		for k, inv := range st.inventory {
			if wanted[k.roomTypeID] && !k.date.Before(from) && k.date.Before(to) {
				out = append(out, inv)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomTypeID != out[j].RoomTypeID {
			return out[i].RoomTypeID.String() < out[j].RoomTypeID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r roomInventoryRepo) LockRange(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]entity.RoomInventory, error) {
	return r.FindByRange(ctx, []uuid.UUID{roomTypeID}, from, to)
}

type teeTimeSlotRepo struct{ h handle }

func (r teeTimeSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error) {
	var out *entity.TeeTimeSlot
	r.h.do(func(st *state) {
		if s, ok := st.slots[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r teeTimeSlotRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.TeeTimeSlot, error) {
	return r.FindByID(ctx, id)
}

func (r teeTimeSlotRepo) FindOpenByCourseAndDate(_ context.Context, courseID uuid.UUID, date time.Time) ([]*entity.TeeTimeSlot, error) {
	var out []*entity.TeeTimeSlot
	r.h.do(func(st *state) {
		for _, s := range st.slots {
			if s.CourseID == courseID && s.Date.Equal(date) && !s.IsBlocked {
				s := s
				out = append(out, &s)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].TeeTime < out[j].TeeTime })
	return out, nil
}

type reservationRepo struct{ h handle }

func (r reservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	row := *reservation
	row.Items, row.TeeTimes = nil, nil
	r.h.do(func(st *state) {
		st.reservations[row.ID] = row
	})
	return nil
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var out *entity.Reservation
	r.h.do(func(st *state) {
		if res, ok := st.reservations[id]; ok {
			out = &res
		}
	})
	return out, nil
}

func (r reservationRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r reservationRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	var all []*entity.Reservation
	r.h.do(func(st *state) {
		for _, res := range st.reservations {
			if res.UserID == userID {
				res := res
				all = append(all, &res)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r reservationRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	total := 0
	r.h.do(func(st *state) {
		for _, res := range st.reservations {
			if res.UserID == userID {
				total++
			}
		}
	})
	return total, nil
}

func (r reservationRepo) FindHoldingLodging(_ context.Context, roomTypeIDs []uuid.UUID, from, to, now time.Time) ([]*entity.Reservation, error) {
	wanted := make(map[uuid.UUID]bool, len(roomTypeIDs))
	for _, id := range roomTypeIDs {
		wanted[id] = true
	}

	var out []*entity.Reservation
	r.h.do(func(st *state) {
		for _, res := range st.reservations {
			if res.RoomTypeID == nil || !wanted[*res.RoomTypeID] || res.CheckOutDate == nil {
				continue
			}
			if !res.CheckInDate.Before(to) || !res.CheckOutDate.After(from) {
				continue
			}
			if !res.HoldsCapacity(now) {
				continue
			}
			res := res
			out = append(out, &res)
		}
	})
	return out, nil
}

func (r reservationRepo) Confirm(_ context.Context, id uuid.UUID, paymentReference string, now time.Time) (bool, error) {
	ok := false
	r.h.do(func(st *state) {
		res, found := st.reservations[id]
		if !found || res.Status != entity.ReservationStatusPending {
			return
		}
		if res.HoldExpiresAt == nil || !res.HoldExpiresAt.After(now) {
			return
		}
		res.Status = entity.ReservationStatusConfirmed
		res.PaymentReference = &paymentReference
		res.ConfirmedAt = &now
		res.HoldExpiresAt = nil
		res.UpdatedAt = now
		st.reservations[id] = res
		ok = true
	})
	return ok, nil
}

func (r reservationRepo) Cancel(_ context.Context, id uuid.UUID, from entity.ReservationStatus, reason string, refundReference *string, now time.Time) (bool, error) {
	ok := false
	r.h.do(func(st *state) {
		res, found := st.reservations[id]
		if !found || res.Status != from {
			return
		}
		cancel(&res, reason, now)
		if refundReference != nil {
			res.RefundReference = refundReference
		}
		st.reservations[id] = res
		ok = true
	})
	return ok, nil
}

func (r reservationRepo) ExpireHolds(_ context.Context, now time.Time) ([]*entity.Reservation, error) {
	var expired []*entity.Reservation
	r.h.do(func(st *state) {
		for id, res := range st.reservations {
			if !res.HoldExpired(now) {
				continue
			}
			cancel(&res, entity.CancellationReasonHoldExpired, now)
			st.reservations[id] = res
			out := res
			expired = append(expired, &out)
		}
	})
	return expired, nil
}

func cancel(res *entity.Reservation, reason string, now time.Time) {
	res.Status = entity.ReservationStatusCancelled
	res.CancellationReason = &reason
	res.CancelledAt = &now
	res.HoldExpiresAt = nil
	res.UpdatedAt = now
}

type reservationItemRepo struct{ h handle }

func (r reservationItemRepo) CreateBatch(_ context.Context, items []entity.ReservationItem) error {
	r.h.do(func(st *state) {
		st.items = append(st.items, items...)
	})
	return nil
}

func (r reservationItemRepo) FindByReservationID(_ context.Context, reservationID uuid.UUID) ([]entity.ReservationItem, error) {
	var out []entity.ReservationItem
	r.h.do(func(st *state) {
		for _, item := range st.items {
			if item.ReservationID == reservationID {
				out = append(out, item)
			}
		}
	})
	return out, nil
}

type reservationTeeTimeRepo struct{ h handle }

func (r reservationTeeTimeRepo) CreateBatch(_ context.Context, links []entity.ReservationTeeTime) error {
	r.h.do(func(st *state) {
		st.teeTimes = append(st.teeTimes, links...)
	})
	return nil
}

func (r reservationTeeTimeRepo) FindByReservationID(_ context.Context, reservationID uuid.UUID) ([]entity.ReservationTeeTime, error) {
	var out []entity.ReservationTeeTime
	r.h.do(func(st *state) {
		for _, link := range st.teeTimes {
			if link.ReservationID == reservationID {
				out = append(out, link)
			}
		}
	})
	return out, nil
}

func (r reservationTeeTimeRepo) FindHoldingBySlotIDs(_ context.Context, slotIDs []uuid.UUID, now time.Time) ([]entity.ReservationTeeTime, error) {
	wanted := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}

	var out []entity.ReservationTeeTime
	r.h.do(func(st *state) {
		for _, link := range st.teeTimes {
			if !wanted[link.TeeTimeSlotID] {
				continue
			}
			res, ok := st.reservations[link.ReservationID]
			if ok && res.HoldsCapacity(now) {
				out = append(out, link)
			}
		}
	})
	return out, nil
}

type sessionRepo struct{ h handle }

func (r sessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	var out *entity.Session
	r.h.do(func(st *state) {
		s, ok := st.sessions[token]
		if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(time.Now()) {
			return
		}
		out = &s
	})
	return out, nil
}
