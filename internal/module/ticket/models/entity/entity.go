package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending    = "pending"
	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// Participant is one registration batch: a single checkout covering one or
// more tickets. Mutated only by the redemption path after creation.
type Participant struct {
	ID               uuid.UUID    `db:"id"`
	EventID          uuid.UUID    `db:"event_id"`
	OrderRef         string       `db:"order_ref"`
	BillingFirstName string       `db:"billing_first_name"`
	BillingLastName  string       `db:"billing_last_name"`
	BillingEmail     string       `db:"billing_email"`
	BillingPhone     string       `db:"billing_phone"`
	PaymentStatus    string       `db:"payment_status"`
	NumberOfTickets  int          `db:"number_of_tickets"`
	ScannedCount     int          `db:"scanned_count"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        sql.NullTime `db:"updated_at"`
}

// Ticket is one admission unit. It carries the attendee profile, the proof
// hash, and the scan state in a single row; position preserves the original
// attendee ordering inside the batch.
type Ticket struct {
	TicketNumber         string         `db:"ticket_number"`
	ParticipantID        uuid.UUID      `db:"participant_id"`
	EventID              uuid.UUID      `db:"event_id"`
	Position             int            `db:"position"`
	AttendeeName         string         `db:"attendee_name"`
	IdentificationNumber string         `db:"identification_number"`
	Age                  int            `db:"age"`
	Gender               string         `db:"gender"`
	AttendeeEmail        string         `db:"attendee_email"`
	TeamName             string         `db:"team_name"`
	ProofHash            string         `db:"proof_hash"`
	Used                 bool           `db:"used"`
	UsedAt               sql.NullTime   `db:"used_at"`
	UsedBy               sql.NullString `db:"used_by"`
	CreatedAt            time.Time      `db:"created_at"`
}

// Payment is an append-only ledger entry, immutable after insert.
type Payment struct {
	ID            int64     `db:"id"`
	ParticipantID uuid.UUID `db:"participant_id"`
	EventID       uuid.UUID `db:"event_id"`
	Amount        float64   `db:"amount"`
	TicketCount   int       `db:"ticket_count"`
	PaidAt        time.Time `db:"paid_at"`
}

// QRPayload is the structured content encoded in a ticket's QR code. The
// hash binds the ticket to the attendee identity and the shared secret.
type QRPayload struct {
	TicketNumber string `json:"ticketId"`
	AttendeeName string `json:"attendeeName"`
	AttendeeID   string `json:"attendeeId"`
	EventID      string `json:"eventId"`
	EventName    string `json:"eventName"`
	EventDate    string `json:"eventDate"`
	IssuedAt     int64  `json:"timestamp"`
	Hash         string `json:"hash"`
}

// RedeemedTicket is the repository's view of a just-flipped ticket together
// with the batch counters after the transition.
type RedeemedTicket struct {
	Ticket          Ticket
	ScannedCount    int
	NumberOfTickets int
}

// PaymentDetail is a payment row joined with its batch and event for the
// listing endpoints.
type PaymentDetail struct {
	ID            int64     `db:"id"`
	Amount        float64   `db:"amount"`
	PaidAt        time.Time `db:"paid_at"`
	TicketCount   int       `db:"ticket_count"`
	ParticipantID uuid.UUID `db:"participant_id"`
	BillingEmail  string    `db:"billing_email"`
	AttendeeName  string    `db:"attendee_name"`
	EventID       uuid.UUID `db:"event_id"`
	EventName     string    `db:"event_name"`
	EventDate     time.Time `db:"event_date"`
}
