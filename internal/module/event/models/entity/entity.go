package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPostponed = "postponed"

	KindEvent  = "event"
	KindSports = "sports"

	SportTypeIndividual = "individual"
	SportTypeTeam       = "team"
	SportTypeBoth       = "both"
)

// CapacityLedger tracks admission slots for a single event. It is embedded in
// Event and shares its row; all mutations go through the repository's
// conditional updates, these methods exist for in-memory bookkeeping and
// invariant checks.
type CapacityLedger struct {
	MaximumOccupancy  int `db:"maximum_occupancy" json:"maximum_occupancy"`
	Consumed          int `db:"consumed" json:"consumed"`
	Unscanned         int `db:"unscanned" json:"unscanned"`
	ConfirmedPayments int `db:"confirmed_payments" json:"confirmed_payments"`
}

// Available returns the number of admission slots left.
func (l *CapacityLedger) Available() int {
	return l.MaximumOccupancy - l.Consumed
}

// CanReserve reports whether n tickets fit under the ceiling.
func (l *CapacityLedger) CanReserve(n int) bool {
	return n > 0 && l.Available() >= n
}

// Reserve consumes n slots. Callers must check CanReserve first; the
// authoritative ceiling check lives in the repository update.
func (l *CapacityLedger) Reserve(n int) {
	l.Consumed += n
	l.Unscanned += n
}

// Release hands n slots back, for refund or cancellation flows.
func (l *CapacityLedger) Release(n int) {
	l.Consumed -= n
	if l.Consumed < 0 {
		l.Consumed = 0
	}
	l.Unscanned -= n
	if l.Unscanned < 0 {
		l.Unscanned = 0
	}
}

// MarkScanned moves one ticket from unscanned to scanned, clamped at zero so
// drifted counters never go negative.
func (l *CapacityLedger) MarkScanned() {
	if l.Unscanned > 0 {
		l.Unscanned--
	}
}

// Valid reports whether the ledger invariants hold: consumed never exceeds
// the ceiling and unscanned never exceeds consumed.
func (l *CapacityLedger) Valid() bool {
	return l.Consumed <= l.MaximumOccupancy && l.Unscanned <= l.Consumed && l.Unscanned >= 0
}

// Event is the capacity-bearing catalog entity. Kind discriminates plain
// events from sports sessions; sports-only fields stay zero for plain events.
type Event struct {
	ID              uuid.UUID      `db:"id"`
	Kind            string         `db:"kind"`
	Name            string         `db:"name"`
	Venue           string         `db:"venue"`
	EventDate       time.Time      `db:"event_date"`
	EventTime       string         `db:"event_time"`
	Category        string         `db:"category"`
	Image           string         `db:"image"`
	Description     string         `db:"description"`
	RegistrationFee float64        `db:"registration_fee"`
	SportType       string         `db:"sport_type"`
	TeamSize        int            `db:"team_size"`
	CapacityLedger
	Status    string         `db:"status"`
	TaskID    sql.NullString `db:"task_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// AcceptsRegistration reports whether tickets may still be issued.
func (e *Event) AcceptsRegistration() bool {
	return e.Status == StatusUpcoming || e.Status == StatusOngoing
}

func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

func ValidSportType(s string) bool {
	switch s {
	case SportTypeIndividual, SportTypeTeam, SportTypeBoth:
		return true
	}
	return false
}
