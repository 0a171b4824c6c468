package response

type UserServiceValidate struct {
	IsValid bool   `json:"is_valid"`
	UserID  int64  `json:"user_id"`
	Role    string `json:"role"`
	Email   string `json:"email"`
}

type BillingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type AttendeeInfo struct {
	Name                 string `json:"name"`
	IdentificationNumber string `json:"identification_number"`
	Age                  int    `json:"age,omitempty"`
	Gender               string `json:"gender"`
	AttendeeEmail        string `json:"attendee_email,omitempty"`
	TeamName             string `json:"team_name,omitempty"`
}

type IssuedTicket struct {
	TicketNumber string       `json:"ticket_number"`
	Attendee     AttendeeInfo `json:"attendee"`
	QRCode       string       `json:"qr_code"` // base64 PNG
	Scanned      bool         `json:"scanned"`
}

type RegistrationBatch struct {
	ID              string         `json:"id"`
	OrderRef        string         `json:"order_id"`
	EventID         string         `json:"event_id"`
	BillingInfo     BillingInfo    `json:"billing_info"`
	Tickets         []IssuedTicket `json:"tickets"`
	PaymentStatus   string         `json:"payment_status"`
	NumberOfTickets int            `json:"number_of_tickets"`
	ScannedCount    int            `json:"scanned_count"`
	CreatedAt       string         `json:"created_at"`
}

type PaymentSummary struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	TicketCount int     `json:"ticket_count"`
}

type RegistrationResult struct {
	Participant RegistrationBatch `json:"participant"`
	Payment     PaymentSummary    `json:"payment"`
}

type RedeemedTicket struct {
	TicketNumber      string `json:"ticket_number"`
	AttendeeName      string `json:"attendee_name"`
	AttendeeID        string `json:"attendee_id"`
	EventName         string `json:"event_name"`
	EventDate         string `json:"event_date"`
	ScannedAt         string `json:"scanned_at"`
	AllTicketsScanned bool   `json:"all_tickets_scanned"`
	RemainingTickets  int    `json:"remaining_tickets"`
}

type ParticipantTicket struct {
	Batch                RegistrationBatch `json:"participant"`
	CurrentTicketScanned bool              `json:"current_ticket_scanned"`
}

type PaymentRecord struct {
	ID          int64            `json:"id"`
	Amount      float64          `json:"amount"`
	Date        string           `json:"date"`
	TicketCount int              `json:"ticket_count"`
	Participant *ParticipantRef  `json:"participant,omitempty"`
	Event       *EventRef        `json:"event,omitempty"`
}

type ParticipantRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BillingEmail string `json:"billing_email"`
}

type EventRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type Pagination struct {
	CurrentPage   int   `json:"current_page"`
	TotalPages    int   `json:"total_pages"`
	TotalPayments int64 `json:"total_payments"`
}

type PaymentList struct {
	Payments   []PaymentRecord `json:"payments"`
	Pagination Pagination      `json:"pagination"`
}

type EventPaymentSummary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalPayments      int64   `json:"total_payments"`
	SuccessfulPayments int64   `json:"successful_payments"`
	FailedPayments     int64   `json:"failed_payments"`
}

type EventPaymentList struct {
	Event      EventRef            `json:"event"`
	Payments   []PaymentRecord     `json:"payments"`
	Summary    EventPaymentSummary `json:"summary"`
	Pagination Pagination          `json:"pagination"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
