package request

type Attendee struct {
	Name                 string `json:"name" validate:"required"`
	IdentificationNumber string `json:"identification_number" validate:"required"`
	Age                  int    `json:"age"`
	Gender               string `json:"gender" validate:"required,oneof=male female other"`
	AttendeeEmail        string `json:"attendee_email"`
	TeamName             string `json:"team_name"`
}

type RegisterWithPayment struct {
	OrderRef         string     `json:"order_id" validate:"required"`
	BillingFirstName string     `json:"billing_first_name" validate:"required"`
	BillingLastName  string     `json:"billing_last_name" validate:"required"`
	BillingEmail     string     `json:"billing_email" validate:"required,email"`
	BillingPhone     string     `json:"billing_phone" validate:"required"`
	Attendees        []Attendee `json:"attendees" validate:"required,min=1,dive"`
	Amount           float64    `json:"amount" validate:"required,gt=0"`
	NumberOfTickets  int        `json:"number_of_tickets" validate:"required,gt=0"`
}

type ScanTicket struct {
	QRPayload      string `json:"qr_payload" validate:"required"`
	ClaimedEventID string `json:"event_id" validate:"required"`
}

type CreateCheckoutSession struct {
	EventID     string  `json:"event_id" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	EventName   string  `json:"event_name" validate:"required"`
}

type RegistrationConfirmed struct {
	ParticipantID  string   `json:"participant_id" validate:"required"`
	OrderRef       string   `json:"order_id" validate:"required"`
	EmailRecipient string   `json:"email_recipient" validate:"required"`
	RecipientName  string   `json:"recipient_name" validate:"required"`
	EventID        string   `json:"event_id" validate:"required"`
	TicketNumbers  []string `json:"ticket_numbers" validate:"required,min=1"`
	Amount         float64  `json:"amount" validate:"required"`
}

type TicketScanned struct {
	TicketNumber string `json:"ticket_number" validate:"required"`
	EventID      string `json:"event_id" validate:"required"`
	ScannedBy    string `json:"scanned_by"`
	ScannedAt    string `json:"scanned_at" validate:"required"`
}

type PoisonedQueue struct {
	TopicTarget string      `json:"topic_target" validate:"required"`
	ErrorMsg    string      `json:"error_msg" validate:"required"`
	Payload     interface{} `json:"payload" validate:"required"`
}

type NotificationMessage struct {
	EmailRecipient string `json:"email_recipient" validate:"required"`
	Subject        string `json:"subject" validate:"required"`
	HTMLBody       string `json:"html_body" validate:"required"`
}
