package request

const DateLayout = "2006-01-02"

type CreateEvent struct {
	EventName        string `json:"event_name" form:"event_name" validate:"required"`
	Venue            string `json:"venue" form:"venue" validate:"required"`
	Date             string `json:"date" form:"date" validate:"required"`
	Category         string `json:"category" form:"category" validate:"required"`
	Image            string `json:"image" form:"image"`
	Description      string `json:"description" form:"description"`
	MaximumOccupancy int    `json:"maximum_occupancy" form:"maximum_occupancy" validate:"gte=0"`
	Status           string `json:"status" form:"status"`
}

type CreateSport struct {
	SportName           string  `json:"sport_name" form:"sport_name" validate:"required"`
	Venue               string  `json:"venue" form:"venue" validate:"required"`
	Date                string  `json:"date" form:"date" validate:"required"`
	Time                string  `json:"time" form:"time" validate:"required"`
	Category            string  `json:"category" form:"category" validate:"required"`
	Description         string  `json:"description" form:"description"`
	RegistrationFee     float64 `json:"registration_fee" form:"registration_fee" validate:"gte=0"`
	MaximumParticipants int     `json:"maximum_participants" form:"maximum_participants" validate:"gte=0"`
	Status              string  `json:"status" form:"status"`
	SportType           string  `json:"sport_type" form:"sport_type"`
	TeamSize            int     `json:"team_size" form:"team_size"`
}

// UpdateEvent carries a partial update; nil fields keep the stored value.
type UpdateEvent struct {
	Name              *string  `json:"name" form:"name"`
	Venue             *string  `json:"venue" form:"venue"`
	Date              *string  `json:"date" form:"date"`
	Time              *string  `json:"time" form:"time"`
	Category          *string  `json:"category" form:"category"`
	Image             *string  `json:"image" form:"image"`
	Description       *string  `json:"description" form:"description"`
	RegistrationFee   *float64 `json:"registration_fee" form:"registration_fee"`
	SportType         *string  `json:"sport_type" form:"sport_type"`
	TeamSize          *int     `json:"team_size" form:"team_size"`
	MaximumOccupancy  *int     `json:"maximum_occupancy" form:"maximum_occupancy"`
	Consumed          *int     `json:"consumed" form:"consumed"`
	Unscanned         *int     `json:"unscanned" form:"unscanned"`
	ConfirmedPayments *int     `json:"confirmed_payments" form:"confirmed_payments"`
	Status            *string  `json:"status" form:"status"`
}

// ImageAttachment is an uploaded image destined for the blob-storage
// collaborator.
type ImageAttachment struct {
	Filename string
	Data     []byte
}

type EventCompletion struct {
	EventID string `json:"event_id" validate:"required"`
}
