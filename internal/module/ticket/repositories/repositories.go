package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"ticketing-service/config"
	evententity "ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/module/ticket/models/entity"
	"ticketing-service/internal/module/ticket/models/request"
	"ticketing-service/internal/module/ticket/models/response"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"

	"github.com/go-redsync/redsync/v4"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
)

const availabilityKeyPrefix = "event:available:"

type repositories struct {
	db             *sqlx.DB
	log            log.Logger
	httpClient     *circuit.HTTPClient
	redisClient    *redis.Client
	redsync        *redsync.Redsync
	cfgUserService *config.UserServiceConfig
	cfgGateway     *config.PaymentGatewayConfig
	cfgNotifier    *config.NotificationConfig
}

type Repositories interface {
	// http
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
	CreateCheckoutSession(ctx context.Context, payload *request.CreateCheckoutSession) (response.CheckoutSession, error)
	SendNotification(ctx context.Context, msg *request.NotificationMessage) error
	// redis
	CheckAvailableCapacity(ctx context.Context, eventID string) (int64, error)
	SyncAvailableCapacity(ctx context.Context, eventID string, available int) error
	AcquireTicketLock(ctx context.Context, ticketNumber string) (func() error, error)
	// db
	FindEventByID(ctx context.Context, id string) (evententity.Event, error)
	CreateRegistration(ctx context.Context, participant *entity.Participant, tickets []entity.Ticket, payment *entity.Payment) (int, error)
	FindTicketByNumber(ctx context.Context, ticketNumber string) (entity.Ticket, error)
	FindParticipantByID(ctx context.Context, id string) (entity.Participant, error)
	FindTicketsByParticipant(ctx context.Context, participantID string) ([]entity.Ticket, error)
	FindParticipants(ctx context.Context, eventID string) ([]entity.Participant, error)
	RedeemTicket(ctx context.Context, ticketNumber string, scannedBy string) (entity.RedeemedTicket, error)
	FindPayments(ctx context.Context, eventID string, page int, limit int) ([]entity.PaymentDetail, int64, error)
	SumRevenueByEvent(ctx context.Context, eventID string) (float64, error)
	CountPaymentsByStatus(ctx context.Context, eventID string, status string) (int64, error)
}

func New(
	db *sqlx.DB,
	log log.Logger,
	httpClient *circuit.HTTPClient,
	redisClient *redis.Client,
	rs *redsync.Redsync,
	cfgUserService *config.UserServiceConfig,
	cfgGateway *config.PaymentGatewayConfig,
	cfgNotifier *config.NotificationConfig,
) Repositories {
	return &repositories{
		db:             db,
		log:            log,
		httpClient:     httpClient,
		redisClient:    redisClient,
		redsync:        rs,
		cfgUserService: cfgUserService,
		cfgGateway:     cfgGateway,
		cfgNotifier:    cfgNotifier,
	}
}

// ValidateToken implements Repositories via the user-service collaborator.
func (r *repositories) ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error) {
	url := fmt.Sprintf("http://%s:%s/api/private/token/validate?token=%s", r.cfgUserService.Host, r.cfgUserService.Port, token)
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return response.UserServiceValidate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		r.log.Error(ctx, "invalid token", resp.StatusCode)
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	var respData response.UserServiceValidate
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return response.UserServiceValidate{}, err
	}

	if !respData.IsValid {
		r.log.Error(ctx, "invalid token", resp.StatusCode)
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	return respData, nil
}

// CreateCheckoutSession implements Repositories via the payment-gateway
// collaborator. The gateway echoes metadata back through its own
// confirmation flow.
func (r *repositories) CreateCheckoutSession(ctx context.Context, payload *request.CreateCheckoutSession) (response.CheckoutSession, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"amount":      payload.TotalAmount,
		"quantity":    payload.Quantity,
		"description": payload.EventName,
		"currency":    r.cfgGateway.CurrencyISO,
		"success_url": r.cfgGateway.SuccessURL,
		"cancel_url":  r.cfgGateway.CancelURL,
		"metadata": map[string]interface{}{
			"event_id": payload.EventID,
			"quantity": payload.Quantity,
		},
	})

	url := fmt.Sprintf("http://%s:%s/api/private/checkout/sessions", r.cfgGateway.Host, r.cfgGateway.Port)
	resp, err := r.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		r.log.Error(ctx, "error create checkout session", err)
		return response.CheckoutSession{}, errors.UpstreamError("error create checkout session")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		r.log.Error(ctx, "error create checkout session", resp.StatusCode)
		return response.CheckoutSession{}, errors.UpstreamError("error create checkout session")
	}

	var session response.CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return response.CheckoutSession{}, errors.UpstreamError("error parse checkout session response")
	}
	return session, nil
}

// SendNotification implements Repositories via the notification collaborator.
func (r *repositories) SendNotification(ctx context.Context, msg *request.NotificationMessage) error {
	body, _ := json.Marshal(msg)
	url := fmt.Sprintf("http://%s:%s/api/private/notifications", r.cfgNotifier.Host, r.cfgNotifier.Port)
	resp, err := r.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		r.log.Error(ctx, "error send notification", err)
		return errors.UpstreamError("error send notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 202 {
		r.log.Error(ctx, "error send notification", resp.StatusCode)
		return errors.UpstreamError("error send notification")
	}
	return nil
}

// CheckAvailableCapacity implements Repositories. A cache miss or a redis
// failure surfaces as an error; callers treat it as "unknown" and fall
// through to the authoritative store.
func (r *repositories) CheckAvailableCapacity(ctx context.Context, eventID string) (int64, error) {
	data, err := r.redisClient.Get(ctx, availabilityKeyPrefix+eventID).Result()
	if err != nil {
		return 0, errors.InternalServerError("error get available capacity")
	}
	available, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, errors.InternalServerError("error parse available capacity")
	}
	return available, nil
}

// SyncAvailableCapacity implements Repositories.
func (r *repositories) SyncAvailableCapacity(ctx context.Context, eventID string, available int) error {
	if err := r.redisClient.Set(ctx, availabilityKeyPrefix+eventID, available, 0).Err(); err != nil {
		return errors.InternalServerError("error sync available capacity")
	}
	return nil
}

// AcquireTicketLock implements Repositories. The mutex narrows the redeem
// race window across processes; the conditional update in RedeemTicket stays
// authoritative.
func (r *repositories) AcquireTicketLock(ctx context.Context, ticketNumber string) (func() error, error) {
	mutex := r.redsync.NewMutex(
		"lock:ticket:"+ticketNumber,
		redsync.WithExpiry(8*time.Second),
		redsync.WithTries(3),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.InternalServerError("error acquire ticket lock")
	}
	return func() error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}, nil
}

// FindEventByID implements Repositories.
func (r *repositories) FindEventByID(ctx context.Context, id string) (evententity.Event, error) {
	query := `SELECT id, kind, name, venue, event_date, event_time, category, image, description,
		registration_fee, sport_type, team_size, maximum_occupancy, consumed, unscanned,
		confirmed_payments, status, task_id, created_at, updated_at
		FROM events WHERE id = $1`
	var event evententity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err == sql.ErrNoRows {
		return evententity.Event{}, errors.NotFound("event not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find event by id", err)
		return evententity.Event{}, errors.InternalServerError("error find event by id")
	}
	return event, nil
}

// CreateRegistration implements Repositories. The batch, its tickets, the
// payment entry, and the capacity mutation commit in one transaction; the
// ceiling check rides on the capacity update itself so two concurrent
// registrations can never both fit into the last slot. Returns the remaining
// availability after the reservation.
func (r *repositories) CreateRegistration(ctx context.Context, participant *entity.Participant, tickets []entity.Ticket, payment *entity.Payment) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.InternalServerError("error starting transaction")
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO participants (id, event_id, order_ref, billing_first_name, billing_last_name,
			billing_email, billing_phone, payment_status, number_of_tickets, scanned_count, created_at)
		VALUES (:id, :event_id, :order_ref, :billing_first_name, :billing_last_name,
			:billing_email, :billing_phone, :payment_status, :number_of_tickets, :scanned_count, :created_at)
	`, participant)
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error insert participant", err)
		return 0, errors.InternalServerError("error insert participant")
	}

	for i := range tickets {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO tickets (ticket_number, participant_id, event_id, position, attendee_name,
				identification_number, age, gender, attendee_email, team_name, proof_hash,
				used, used_at, used_by, created_at)
			VALUES (:ticket_number, :participant_id, :event_id, :position, :attendee_name,
				:identification_number, :age, :gender, :attendee_email, :team_name, :proof_hash,
				:used, :used_at, :used_by, :created_at)
		`, tickets[i])
		if err != nil {
			tx.Rollback()
			r.log.Error(ctx, "error insert ticket", err)
			return 0, errors.InternalServerError("error insert ticket")
		}
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO payments (participant_id, event_id, amount, ticket_count, paid_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, payment.ParticipantID, payment.EventID, payment.Amount, payment.TicketCount, payment.PaidAt).Scan(&payment.ID)
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error insert payment", err)
		return 0, errors.InternalServerError("error insert payment")
	}

	n := participant.NumberOfTickets
	var available int
	err = tx.QueryRowxContext(ctx, `
		UPDATE events
		SET consumed = consumed + $2,
			unscanned = unscanned + $2,
			confirmed_payments = confirmed_payments + 1,
			updated_at = NOW()
		WHERE id = $1 AND consumed + $2 <= maximum_occupancy
		RETURNING maximum_occupancy - consumed
	`, participant.EventID, n).Scan(&available)
	if err == sql.ErrNoRows {
		var left int
		if scanErr := tx.QueryRowxContext(ctx,
			`SELECT maximum_occupancy - consumed FROM events WHERE id = $1`,
			participant.EventID).Scan(&left); scanErr != nil {
			left = 0
		}
		tx.Rollback()
		return 0, errors.BadRequest(fmt.Sprintf("only %d spots available, but requested %d tickets", left, n))
	}
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error reserve capacity", err)
		return 0, errors.InternalServerError("error reserve capacity")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.InternalServerError("error committing transaction")
	}

	return available, nil
}

const ticketColumns = `ticket_number, participant_id, event_id, position, attendee_name,
	identification_number, age, gender, attendee_email, team_name, proof_hash,
	used, used_at, used_by, created_at`

// FindTicketByNumber implements Repositories.
func (r *repositories) FindTicketByNumber(ctx context.Context, ticketNumber string) (entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number = $1`
	var ticket entity.Ticket
	err := r.db.GetContext(ctx, &ticket, query, ticketNumber)
	if err == sql.ErrNoRows {
		return entity.Ticket{}, errors.NotFound("ticket not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find ticket by number", err)
		return entity.Ticket{}, errors.InternalServerError("error find ticket by number")
	}
	return ticket, nil
}

// FindParticipantByID implements Repositories.
func (r *repositories) FindParticipantByID(ctx context.Context, id string) (entity.Participant, error) {
	query := `SELECT id, event_id, order_ref, billing_first_name, billing_last_name, billing_email,
		billing_phone, payment_status, number_of_tickets, scanned_count, created_at, updated_at
		FROM participants WHERE id = $1`
	var participant entity.Participant
	err := r.db.GetContext(ctx, &participant, query, id)
	if err == sql.ErrNoRows {
		return entity.Participant{}, errors.NotFound("participant not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find participant by id", err)
		return entity.Participant{}, errors.InternalServerError("error find participant by id")
	}
	return participant, nil
}

// FindTicketsByParticipant implements Repositories, in issuance order.
func (r *repositories) FindTicketsByParticipant(ctx context.Context, participantID string) ([]entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE participant_id = $1 ORDER BY position`
	var tickets []entity.Ticket
	if err := r.db.SelectContext(ctx, &tickets, query, participantID); err != nil {
		r.log.Error(ctx, "error find tickets by participant", err)
		return nil, errors.InternalServerError("error find tickets by participant")
	}
	return tickets, nil
}

// FindParticipants implements Repositories, newest batches first. An empty
// eventID returns every batch.
func (r *repositories) FindParticipants(ctx context.Context, eventID string) ([]entity.Participant, error) {
	query := `SELECT id, event_id, order_ref, billing_first_name, billing_last_name, billing_email,
		billing_phone, payment_status, number_of_tickets, scanned_count, created_at, updated_at
		FROM participants`
	args := []interface{}{}
	if eventID != "" {
		query += ` WHERE event_id = $1`
		args = append(args, eventID)
	}
	query += ` ORDER BY created_at DESC`

	var participants []entity.Participant
	if err := r.db.SelectContext(ctx, &participants, query, args...); err != nil {
		r.log.Error(ctx, "error find participants", err)
		return nil, errors.InternalServerError("error find participants")
	}
	return participants, nil
}

// RedeemTicket implements Repositories. The flip is guarded by used = false
// in the update itself, so a concurrent scan of the same ticket loses the
// race and reports the original scan.
func (r *repositories) RedeemTicket(ctx context.Context, ticketNumber string, scannedBy string) (entity.RedeemedTicket, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.RedeemedTicket{}, errors.InternalServerError("error starting transaction")
	}

	var ticket entity.Ticket
	err = tx.GetContext(ctx, &ticket, `
		UPDATE tickets SET used = true, used_at = NOW(), used_by = $2
		WHERE ticket_number = $1 AND used = false
		RETURNING `+ticketColumns, ticketNumber, scannedBy)
	if err == sql.ErrNoRows {
		var prior entity.Ticket
		findErr := tx.GetContext(ctx, &prior,
			`SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1`, ticketNumber)
		tx.Rollback()
		if findErr != nil {
			return entity.RedeemedTicket{}, errors.NotFound("ticket not found")
		}
		return entity.RedeemedTicket{}, errors.BadRequest(fmt.Sprintf(
			"ticket already scanned at %s by %s",
			prior.UsedAt.Time.Format("2006-01-02 15:04:05"), prior.UsedBy.String))
	}
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error redeem ticket", err)
		return entity.RedeemedTicket{}, errors.InternalServerError("error redeem ticket")
	}

	var scannedCount, numberOfTickets int
	err = tx.QueryRowxContext(ctx, `
		UPDATE participants SET scanned_count = scanned_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING scanned_count, number_of_tickets
	`, ticket.ParticipantID).Scan(&scannedCount, &numberOfTickets)
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error update scanned count", err)
		return entity.RedeemedTicket{}, errors.InternalServerError("error update scanned count")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events SET unscanned = GREATEST(unscanned - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, ticket.EventID)
	if err != nil {
		tx.Rollback()
		r.log.Error(ctx, "error update unscanned count", err)
		return entity.RedeemedTicket{}, errors.InternalServerError("error update unscanned count")
	}

	if err := tx.Commit(); err != nil {
		return entity.RedeemedTicket{}, errors.InternalServerError("error committing transaction")
	}

	return entity.RedeemedTicket{
		Ticket:          ticket,
		ScannedCount:    scannedCount,
		NumberOfTickets: numberOfTickets,
	}, nil
}

// FindPayments implements Repositories with page/limit, newest first.
func (r *repositories) FindPayments(ctx context.Context, eventID string, page int, limit int) ([]entity.PaymentDetail, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	baseQuery := `
		FROM payments p
		JOIN participants pt ON pt.id = p.participant_id
		JOIN events e ON e.id = p.event_id
		LEFT JOIN tickets t ON t.participant_id = pt.id AND t.position = 0`
	where := ``
	args := []interface{}{}
	if eventID != "" {
		where = ` WHERE p.event_id = $1`
		args = append(args, eventID)
	}

	countQuery := `SELECT COUNT(*) FROM payments p` + where
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		r.log.Error(ctx, "error count payments", err)
		return nil, 0, errors.InternalServerError("error count payments")
	}

	query := `SELECT p.id, p.amount, p.paid_at, p.ticket_count, p.participant_id,
		pt.billing_email, COALESCE(t.attendee_name, '') AS attendee_name,
		p.event_id, e.name AS event_name, e.event_date ` + baseQuery + where +
		fmt.Sprintf(` ORDER BY p.paid_at DESC LIMIT %d OFFSET %d`, limit, offset)

	var payments []entity.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		r.log.Error(ctx, "error find payments", err)
		return nil, 0, errors.InternalServerError("error find payments")
	}
	return payments, total, nil
}

// SumRevenueByEvent implements Repositories.
func (r *repositories) SumRevenueByEvent(ctx context.Context, eventID string) (float64, error) {
	var revenue float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE event_id = $1`
	if err := r.db.GetContext(ctx, &revenue, query, eventID); err != nil {
		r.log.Error(ctx, "error sum revenue by event", err)
		return 0, errors.InternalServerError("error sum revenue by event")
	}
	return revenue, nil
}

// CountPaymentsByStatus implements Repositories, counting by the owning
// batch's payment status.
func (r *repositories) CountPaymentsByStatus(ctx context.Context, eventID string, status string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM payments p
		JOIN participants pt ON pt.id = p.participant_id
		WHERE p.event_id = $1 AND pt.payment_status = $2`
	if err := r.db.GetContext(ctx, &count, query, eventID, status); err != nil {
		r.log.Error(ctx, "error count payments by status", err)
		return 0, errors.InternalServerError("error count payments by status")
	}
	return count, nil
}
