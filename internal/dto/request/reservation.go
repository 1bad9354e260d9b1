package request

type CreateReservationRequest struct {
	Type            string                   `json:"type" validate:"required,oneof=lodging tee_time"`
	LocationID      string                   `json:"location_id" validate:"omitempty,uuid"`
	CourseID        string                   `json:"course_id" validate:"required_if=Type tee_time,omitempty,uuid"`
	RoomTypeID      string                   `json:"room_type_id" validate:"required_if=Type lodging,omitempty,uuid"`
	TeeTimeSlotID   string                   `json:"tee_time_slot_id" validate:"required_if=Type tee_time,omitempty,uuid"`
	CheckInDate     string                   `json:"check_in_date" validate:"required_if=Type lodging,omitempty,datetime=2006-01-02"`
	CheckOutDate    string                   `json:"check_out_date" validate:"required_if=Type lodging,excluded_if=Type tee_time,omitempty,datetime=2006-01-02"`
	RoomCount       int                      `json:"room_count" validate:"required_if=Type lodging,omitempty,min=1,max=20"`
	PlayerCount     int                      `json:"player_count" validate:"required_if=Type tee_time,omitempty,min=1,max=8"`
	TotalPrice      *int64                   `json:"total_price" validate:"omitempty,gte=0"`
	SpecialRequests *string                  `json:"special_requests" validate:"omitempty,max=1000"`
	Items           []ReservationItemRequest `json:"items" validate:"excluded_if=Type tee_time,omitempty,dive"`
}

type ReservationItemRequest struct {
	Description string `json:"description" validate:"required,max=255"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Subtotal    int64  `json:"subtotal" validate:"gte=0"`
}

type ConfirmReservationRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=255"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type LodgingAvailabilityRequest struct {
	RoomTypeID string `json:"room_type_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Rooms      int    `json:"rooms" validate:"min=1,max=20"`
}

type LocationAvailabilityRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Rooms      int    `json:"rooms" validate:"min=1,max=20"`
}

type TeeTimeAvailabilityRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Players  int    `json:"players" validate:"min=1,max=8"`
}
