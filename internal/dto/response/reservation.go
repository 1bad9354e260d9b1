package response

import (
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID                 string                       `json:"id"`
	Code               string                       `json:"code"`
	Type               entity.ReservationType       `json:"type"`
	UserID             string                       `json:"user_id"`
	Status             entity.ReservationStatus     `json:"status"`
	LocationID         *string                      `json:"location_id,omitempty"`
	CourseID           *string                      `json:"course_id,omitempty"`
	RoomTypeID         *string                      `json:"room_type_id,omitempty"`
	CheckInDate        string                       `json:"check_in_date"`
	CheckOutDate       *string                      `json:"check_out_date,omitempty"`
	RoomCount          int                          `json:"room_count,omitempty"`
	PlayerCount        int                          `json:"player_count,omitempty"`
	TotalPrice         int64                        `json:"total_price"`
	SpecialRequests    *string                      `json:"special_requests,omitempty"`
	HoldExpiresAt      *time.Time                   `json:"hold_expires_at"`
	PaymentReference   *string                      `json:"payment_reference,omitempty"`
	RefundReference    *string                      `json:"refund_reference,omitempty"`
	CancellationReason *string                      `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time                   `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time                   `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                    `json:"created_at"`
	UpdatedAt          time.Time                    `json:"updated_at"`
	Items              []ReservationItemResponse    `json:"items,omitempty"`
	TeeTimes           []ReservationTeeTimeResponse `json:"tee_times,omitempty"`
}

type ReservationItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Date        string `json:"date"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

type ReservationTeeTimeResponse struct {
	ID            string `json:"id"`
	TeeTimeSlotID string `json:"tee_time_slot_id"`
	PlayerCount   int    `json:"player_count"`
}

type PaymentIntentResponse struct {
	ReservationID    string     `json:"reservation_id"`
	Amount           int64      `json:"amount"`
	ClientSecret     string     `json:"client_secret"`
	PaymentReference string     `json:"payment_reference"`
	HoldExpiresAt    *time.Time `json:"hold_expires_at"`
}

// Helper converters
func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:                 r.ID.String(),
		Code:               r.Code,
		Type:               r.Type,
		UserID:             r.UserID.String(),
		Status:             r.Status,
		LocationID:         uuidString(r.LocationID),
		CourseID:           uuidString(r.CourseID),
		RoomTypeID:         uuidString(r.RoomTypeID),
		CheckInDate:        utils.FormatDate(r.CheckInDate),
		RoomCount:          r.RoomCount,
		PlayerCount:        r.PlayerCount,
		TotalPrice:         r.TotalPrice,
		SpecialRequests:    r.SpecialRequests,
		HoldExpiresAt:      r.HoldExpiresAt,
		PaymentReference:   r.PaymentReference,
		RefundReference:    r.RefundReference,
		CancellationReason: r.CancellationReason,
		ConfirmedAt:        r.ConfirmedAt,
		CancelledAt:        r.CancelledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CheckOutDate != nil {
		checkOut := utils.FormatDate(*r.CheckOutDate)
		resp.CheckOutDate = &checkOut
	}

	for _, item := range r.Items {
		resp.Items = append(resp.Items, ReservationItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Date:        utils.FormatDate(item.Date),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}

	for _, link := range r.TeeTimes {
		resp.TeeTimes = append(resp.TeeTimes, ReservationTeeTimeResponse{
			ID:            link.ID.String(),
			TeeTimeSlotID: link.TeeTimeSlotID.String(),
			PlayerCount:   link.PlayerCount,
		})
	}

	return resp
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
