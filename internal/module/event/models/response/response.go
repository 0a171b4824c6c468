package response

import "ticketing-service/internal/module/event/models/entity"

type TicketStatus struct {
	MaximumOccupancy  int `json:"maximum_occupancy"`
	Consumed          int `json:"consumed"`
	Unscanned         int `json:"unscanned"`
	ConfirmedPayments int `json:"confirmed_payments"`
}

type Event struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	Name            string       `json:"name"`
	Venue           string       `json:"venue"`
	Date            string       `json:"date"`
	Time            string       `json:"time,omitempty"`
	Category        string       `json:"category"`
	Image           string       `json:"image,omitempty"`
	Description     string       `json:"description,omitempty"`
	RegistrationFee float64      `json:"registration_fee,omitempty"`
	SportType       string       `json:"sport_type,omitempty"`
	TeamSize        int          `json:"team_size,omitempty"`
	TicketStatus    TicketStatus `json:"ticket_status"`
	Status          string       `json:"status"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
}

type DeletedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SportsByCategory struct {
	Category CategorySummary `json:"category"`
	Count    int             `json:"count"`
	Sports   []Event         `json:"sports"`
}

type CategorySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func FromEntity(e entity.Event) Event {
	return Event{
		ID:              e.ID.String(),
		Kind:            e.Kind,
		Name:            e.Name,
		Venue:           e.Venue,
		Date:            e.EventDate.Format("2006-01-02 15:04:05"),
		Time:            e.EventTime,
		Category:        e.Category,
		Image:           e.Image,
		Description:     e.Description,
		RegistrationFee: e.RegistrationFee,
		SportType:       e.SportType,
		TeamSize:        e.TeamSize,
		TicketStatus: TicketStatus{
			MaximumOccupancy:  e.MaximumOccupancy,
			Consumed:          e.Consumed,
			Unscanned:         e.Unscanned,
			ConfirmedPayments: e.ConfirmedPayments,
		},
		Status:    e.Status,
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
