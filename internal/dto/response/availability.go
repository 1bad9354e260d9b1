package response

import (
	"golf-booking/internal/availability"
	"golf-booking/internal/data/entity"
	"golf-booking/pkg/utils"
)

type DateAvailabilityResponse struct {
	Date         string `json:"date"`
	HasInventory bool   `json:"has_inventory"`
	TotalUnits   int    `json:"total_units"`
	BlockedUnits int    `json:"blocked_units"`
	Booked       int    `json:"booked"`
	Available    int    `json:"available"`
}

type LodgingAvailabilityResponse struct {
	RoomTypeID   string                     `json:"room_type_id"`
	RoomTypeName string                     `json:"room_type_name,omitempty"`
	BasePrice    int64                      `json:"base_price"`
	CheckIn      string                     `json:"check_in"`
	CheckOut     string                     `json:"check_out"`
	Nights       int                        `json:"nights"`
	Rooms        int                        `json:"rooms"`
	Admissible   bool                       `json:"admissible"`
	MinAvailable int                        `json:"min_available"`
	BindingDate  *string                    `json:"binding_date,omitempty"`
	Dates        []DateAvailabilityResponse `json:"dates"`
}

type LocationAvailabilityResponse struct {
	LocationID string                        `json:"location_id"`
	CheckIn    string                        `json:"check_in"`
	CheckOut   string                        `json:"check_out"`
	RoomTypes  []LodgingAvailabilityResponse `json:"room_types"`
}

type TeeTimeSlotResponse struct {
	SlotID         string `json:"slot_id"`
	TeeTime        string `json:"tee_time"`
	MaxPlayers     int    `json:"max_players"`
	BookedPlayers  int    `json:"booked_players"`
	Available      int    `json:"available"`
	EffectivePrice int64  `json:"effective_price"`
	Admissible     bool   `json:"admissible"`
	TotalPrice     int64  `json:"total_price"`
}

type TeeTimeAvailabilityResponse struct {
	CourseID string                `json:"course_id"`
	Date     string                `json:"date"`
	Players  int                   `json:"players"`
	Slots    []TeeTimeSlotResponse `json:"slots"`
}

func LodgingToResponse(rt *entity.RoomType, result availability.LodgingResult, rooms int) LodgingAvailabilityResponse {
	resp := LodgingAvailabilityResponse{
		RoomTypeID:   result.RoomTypeID.String(),
		CheckIn:      utils.FormatDate(result.CheckIn),
		CheckOut:     utils.FormatDate(result.CheckOut),
		Nights:       len(result.Dates),
		Rooms:        rooms,
		Admissible:   result.Admits(rooms),
		MinAvailable: result.MinAvailable(),
		Dates:        make([]DateAvailabilityResponse, 0, len(result.Dates)),
	}
	if rt != nil {
		resp.RoomTypeName = rt.Name
		resp.BasePrice = rt.BasePrice
	}

	if binding, short := result.BindingConstraint(rooms); short {
		d := utils.FormatDate(binding.Date)
		resp.BindingDate = &d
	}

	for _, d := range result.Dates {
		resp.Dates = append(resp.Dates, DateAvailabilityResponse{
			Date:         utils.FormatDate(d.Date),
			HasInventory: d.HasInventory,
			TotalUnits:   d.TotalUnits,
			BlockedUnits: d.BlockedUnits,
			Booked:       d.Booked,
			Available:    d.Available,
		})
	}

	return resp
}

func SlotToResponse(s availability.SlotAvailability, players int) TeeTimeSlotResponse {
	return TeeTimeSlotResponse{
		SlotID:         s.Slot.ID.String(),
		TeeTime:        s.Slot.TeeTime,
		MaxPlayers:     s.Slot.MaxPlayers,
		BookedPlayers:  s.BookedPlayers,
		Available:      s.Available,
		EffectivePrice: s.EffectivePrice,
		Admissible:     s.Admits(players),
		TotalPrice:     s.TotalFor(players),
	}
}
