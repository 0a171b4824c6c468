package usecases

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"ticketing-service/config"
	evententity "ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/module/ticket/models/entity"
	"ticketing-service/internal/module/ticket/models/request"
	"ticketing-service/internal/module/ticket/models/response"
	"ticketing-service/internal/module/ticket/repositories"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/helpers"
	"ticketing-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

type usecase struct {
	repo      repositories.Repositories
	log       log.Logger
	publisher message.Publisher
	cfg       *config.TicketingConfig
}

type Usecase interface {
	RegisterWithPayment(ctx context.Context, eventID string, payload *request.RegisterWithPayment) (response.RegistrationResult, error)
	RedeemTicket(ctx context.Context, payload *request.ScanTicket, scannedBy string) (response.RedeemedTicket, error)
	GetParticipantByTicket(ctx context.Context, ticketNumber string) (response.ParticipantTicket, error)
	ListParticipants(ctx context.Context, eventID string) ([]response.RegistrationBatch, error)
	ListPayments(ctx context.Context, page int, limit int) (response.PaymentList, error)
	ListPaymentsByEvent(ctx context.Context, eventID string, page int, limit int) (response.EventPaymentList, error)
	CreateCheckoutSession(ctx context.Context, payload *request.CreateCheckoutSession) (response.CheckoutSession, error)
	SendRegistrationConfirmation(ctx context.Context, payload *request.RegistrationConfirmed) error
}

func New(repo repositories.Repositories, log log.Logger, publisher message.Publisher, cfg *config.TicketingConfig) Usecase {
	return &usecase{
		repo:      repo,
		log:       log,
		publisher: publisher,
		cfg:       cfg,
	}
}

// RegisterWithPayment validates the whole batch up front, mints tickets, and
// persists the batch, tickets, payment entry, and capacity reservation in a
// single transaction. Nothing is written when any attendee fails validation
// or the capacity ceiling would be crossed.
func (u *usecase) RegisterWithPayment(ctx context.Context, eventID string, payload *request.RegisterWithPayment) (response.RegistrationResult, error) {
	event, err := u.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return response.RegistrationResult{}, err
	}
	if !event.AcceptsRegistration() {
		return response.RegistrationResult{}, errors.BadRequest(fmt.Sprintf("event is %s and no longer accepts registrations", event.Status))
	}

	n := payload.NumberOfTickets
	if len(payload.Attendees) != n {
		return response.RegistrationResult{}, errors.BadRequest(fmt.Sprintf(
			"number_of_tickets is %d but %d attendees were provided", n, len(payload.Attendees)))
	}
	if err := validateAttendees(&event, payload.Attendees); err != nil {
		return response.RegistrationResult{}, err
	}

	// Cheap cache pre-check. A cache miss is not authoritative, the
	// transaction below enforces the ceiling either way.
	if available, err := u.repo.CheckAvailableCapacity(ctx, eventID); err == nil && available < int64(n) {
		return response.RegistrationResult{}, errors.BadRequest(fmt.Sprintf(
			"only %d spots available, but requested %d tickets", available, n))
	}

	now := time.Now()
	participant := entity.Participant{
		ID:               uuid.New(),
		EventID:          event.ID,
		OrderRef:         payload.OrderRef,
		BillingFirstName: payload.BillingFirstName,
		BillingLastName:  payload.BillingLastName,
		BillingEmail:     payload.BillingEmail,
		BillingPhone:     payload.BillingPhone,
		PaymentStatus:    entity.PaymentSuccessful,
		NumberOfTickets:  n,
		CreatedAt:        now,
	}

	tickets := make([]entity.Ticket, 0, n)
	for i, attendee := range payload.Attendees {
		ticketNumber := fmt.Sprintf("%s-%s", u.cfg.TicketPrefix, uuid.NewString())
		tickets = append(tickets, entity.Ticket{
			TicketNumber:         ticketNumber,
			ParticipantID:        participant.ID,
			EventID:              event.ID,
			Position:             i,
			AttendeeName:         attendee.Name,
			IdentificationNumber: attendee.IdentificationNumber,
			Age:                  attendee.Age,
			Gender:               attendee.Gender,
			AttendeeEmail:        attendee.AttendeeEmail,
			TeamName:             attendee.TeamName,
			ProofHash:            u.proofHash(ticketNumber, attendee.Name, attendee.IdentificationNumber, event.ID.String()),
			CreatedAt:            now,
		})
	}

	payment := entity.Payment{
		ParticipantID: participant.ID,
		EventID:       event.ID,
		Amount:        payload.Amount,
		TicketCount:   n,
		PaidAt:        now,
	}

	// Render the QR codes before anything is persisted; a render failure
	// must not leave a committed registration behind.
	issued, err := u.buildIssuedTickets(&event, tickets)
	if err != nil {
		return response.RegistrationResult{}, err
	}

	available, err := u.repo.CreateRegistration(ctx, &participant, tickets, &payment)
	if err != nil {
		return response.RegistrationResult{}, err
	}

	if err := u.repo.SyncAvailableCapacity(ctx, eventID, available); err != nil {
		u.log.Error(ctx, "error sync availability cache", err)
	}

	u.publishRegistrationConfirmed(ctx, &participant, tickets, payload.Amount)

	return response.RegistrationResult{
		Participant: batchResponse(&participant, issued),
		Payment: response.PaymentSummary{
			ID:          payment.ID,
			Amount:      payment.Amount,
			Date:        payment.PaidAt.Format(time.RFC3339),
			TicketCount: payment.TicketCount,
		},
	}, nil
}

func validateAttendees(event *evententity.Event, attendees []request.Attendee) error {
	teamRequired := event.Kind == evententity.KindSports && event.SportType == evententity.SportTypeTeam
	for i, a := range attendees {
		if teamRequired && a.TeamName == "" {
			return errors.BadRequest(fmt.Sprintf("attendee %d: team_name is required for team sports", i+1))
		}
		if a.Age < 0 {
			return errors.BadRequest(fmt.Sprintf("attendee %d: age must not be negative", i+1))
		}
	}
	return nil
}

// RedeemTicket walks the scan gauntlet in order: payload integrity, claimed
// event, ticket existence, bound event, calendar window, proof hash, then the
// one-way flip. A ticket that has already been flipped reports its original
// scan instead of flipping twice.
func (u *usecase) RedeemTicket(ctx context.Context, payload *request.ScanTicket, scannedBy string) (response.RedeemedTicket, error) {
	var qr entity.QRPayload
	if err := json.Unmarshal([]byte(payload.QRPayload), &qr); err != nil {
		return response.RedeemedTicket{}, errors.BadRequest("invalid QR payload")
	}
	if qr.TicketNumber == "" || qr.Hash == "" {
		return response.RedeemedTicket{}, errors.BadRequest("invalid QR payload")
	}
	if qr.EventID != payload.ClaimedEventID {
		return response.RedeemedTicket{}, errors.BadRequest("ticket does not belong to this event")
	}

	unlock, err := u.repo.AcquireTicketLock(ctx, qr.TicketNumber)
	if err != nil {
		return response.RedeemedTicket{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			u.log.Error(ctx, "error release ticket lock", err)
		}
	}()

	ticket, err := u.repo.FindTicketByNumber(ctx, qr.TicketNumber)
	if err != nil {
		return response.RedeemedTicket{}, err
	}
	if ticket.EventID.String() != payload.ClaimedEventID {
		return response.RedeemedTicket{}, errors.BadRequest("ticket does not belong to this event")
	}

	event, err := u.repo.FindEventByID(ctx, ticket.EventID.String())
	if err != nil {
		return response.RedeemedTicket{}, err
	}

	now := time.Now()
	if !helpers.SameCalendarDay(now, event.EventDate, time.Local) {
		return response.RedeemedTicket{}, errors.BadRequest(fmt.Sprintf(
			"ticket is only valid on the event date %s", event.EventDate.Format("2006-01-02")))
	}

	expected := u.proofHash(ticket.TicketNumber, ticket.AttendeeName, ticket.IdentificationNumber, ticket.EventID.String())
	if !hmac.Equal([]byte(expected), []byte(qr.Hash)) {
		return response.RedeemedTicket{}, errors.BadRequest("ticket verification failed, QR payload has been tampered with")
	}

	redeemed, err := u.repo.RedeemTicket(ctx, ticket.TicketNumber, scannedBy)
	if err != nil {
		return response.RedeemedTicket{}, err
	}

	u.publishTicketScanned(ctx, &redeemed.Ticket, scannedBy)

	return response.RedeemedTicket{
		TicketNumber:      redeemed.Ticket.TicketNumber,
		AttendeeName:      redeemed.Ticket.AttendeeName,
		AttendeeID:        redeemed.Ticket.IdentificationNumber,
		EventName:         event.Name,
		EventDate:         event.EventDate.Format("2006-01-02"),
		ScannedAt:         redeemed.Ticket.UsedAt.Time.Format(time.RFC3339),
		AllTicketsScanned: redeemed.ScannedCount >= redeemed.NumberOfTickets,
		RemainingTickets:  redeemed.NumberOfTickets - redeemed.ScannedCount,
	}, nil
}

func (u *usecase) GetParticipantByTicket(ctx context.Context, ticketNumber string) (response.ParticipantTicket, error) {
	ticket, err := u.repo.FindTicketByNumber(ctx, ticketNumber)
	if err != nil {
		return response.ParticipantTicket{}, err
	}

	participant, err := u.repo.FindParticipantByID(ctx, ticket.ParticipantID.String())
	if err != nil {
		return response.ParticipantTicket{}, err
	}

	event, err := u.repo.FindEventByID(ctx, ticket.EventID.String())
	if err != nil {
		return response.ParticipantTicket{}, err
	}

	siblings, err := u.repo.FindTicketsByParticipant(ctx, participant.ID.String())
	if err != nil {
		return response.ParticipantTicket{}, err
	}

	issued, err := u.buildIssuedTickets(&event, siblings)
	if err != nil {
		return response.ParticipantTicket{}, err
	}

	return response.ParticipantTicket{
		Batch:                batchResponse(&participant, issued),
		CurrentTicketScanned: ticket.Used,
	}, nil
}

func (u *usecase) ListParticipants(ctx context.Context, eventID string) ([]response.RegistrationBatch, error) {
	participants, err := u.repo.FindParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := make([]response.RegistrationBatch, 0, len(participants))
	for i := range participants {
		resp = append(resp, batchResponse(&participants[i], nil))
	}
	return resp, nil
}

func (u *usecase) ListPayments(ctx context.Context, page int, limit int) (response.PaymentList, error) {
	payments, total, err := u.repo.FindPayments(ctx, "", page, limit)
	if err != nil {
		return response.PaymentList{}, err
	}

	records := make([]response.PaymentRecord, 0, len(payments))
	for i := range payments {
		records = append(records, paymentRecord(&payments[i], true))
	}

	return response.PaymentList{
		Payments:   records,
		Pagination: paginate(page, limit, total),
	}, nil
}

func (u *usecase) ListPaymentsByEvent(ctx context.Context, eventID string, page int, limit int) (response.EventPaymentList, error) {
	event, err := u.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return response.EventPaymentList{}, err
	}

	payments, total, err := u.repo.FindPayments(ctx, eventID, page, limit)
	if err != nil {
		return response.EventPaymentList{}, err
	}

	revenue, err := u.repo.SumRevenueByEvent(ctx, eventID)
	if err != nil {
		return response.EventPaymentList{}, err
	}
	successful, err := u.repo.CountPaymentsByStatus(ctx, eventID, entity.PaymentSuccessful)
	if err != nil {
		return response.EventPaymentList{}, err
	}
	failed, err := u.repo.CountPaymentsByStatus(ctx, eventID, entity.PaymentFailed)
	if err != nil {
		return response.EventPaymentList{}, err
	}

	records := make([]response.PaymentRecord, 0, len(payments))
	for i := range payments {
		records = append(records, paymentRecord(&payments[i], false))
	}

	return response.EventPaymentList{
		Event: response.EventRef{
			ID:   event.ID.String(),
			Name: event.Name,
			Date: event.EventDate.Format("2006-01-02"),
		},
		Payments: records,
		Summary: response.EventPaymentSummary{
			TotalRevenue:       revenue,
			TotalPayments:      total,
			SuccessfulPayments: successful,
			FailedPayments:     failed,
		},
		Pagination: paginate(page, limit, total),
	}, nil
}

func (u *usecase) CreateCheckoutSession(ctx context.Context, payload *request.CreateCheckoutSession) (response.CheckoutSession, error) {
	event, err := u.repo.FindEventByID(ctx, payload.EventID)
	if err != nil {
		return response.CheckoutSession{}, err
	}
	if !event.AcceptsRegistration() {
		return response.CheckoutSession{}, errors.BadRequest(fmt.Sprintf("event is %s and no longer accepts registrations", event.Status))
	}

	return u.repo.CreateCheckoutSession(ctx, payload)
}

// SendRegistrationConfirmation is the registration_confirmed consumer. It
// composes the confirmation email from the stored batch and hands it to the
// notification collaborator.
func (u *usecase) SendRegistrationConfirmation(ctx context.Context, payload *request.RegistrationConfirmed) error {
	event, err := u.repo.FindEventByID(ctx, payload.EventID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(`<html><body>
<h2>Registration Confirmed</h2>
<p>Hi %s,</p>
<p>Your registration for <strong>%s</strong> on %s is confirmed.</p>
<p>Order reference: %s</p>
<p>Tickets:</p>
<ul>`, payload.RecipientName, event.Name, event.EventDate.Format("2006-01-02"), payload.OrderRef)
	for _, tn := range payload.TicketNumbers {
		body += fmt.Sprintf("<li>%s</li>", tn)
	}
	body += fmt.Sprintf(`</ul>
<p>Total paid: %.2f</p>
<p>Show the QR code on your ticket at the venue entrance.</p>
</body></html>`, payload.Amount)

	return u.repo.SendNotification(ctx, &request.NotificationMessage{
		EmailRecipient: payload.EmailRecipient,
		Subject:        fmt.Sprintf("Your tickets for %s", event.Name),
		HTMLBody:       body,
	})
}

func (u *usecase) publishRegistrationConfirmed(ctx context.Context, participant *entity.Participant, tickets []entity.Ticket, amount float64) {
	ticketNumbers := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketNumbers = append(ticketNumbers, t.TicketNumber)
	}
	payload, _ := json.Marshal(request.RegistrationConfirmed{
		ParticipantID:  participant.ID.String(),
		OrderRef:       participant.OrderRef,
		EmailRecipient: participant.BillingEmail,
		RecipientName:  participant.BillingFirstName + " " + participant.BillingLastName,
		EventID:        participant.EventID.String(),
		TicketNumbers:  ticketNumbers,
		Amount:         amount,
	})
	if err := u.publisher.Publish("registration_confirmed", message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		u.log.Error(ctx, "error publish registration confirmed", err)
	}
}

func (u *usecase) publishTicketScanned(ctx context.Context, ticket *entity.Ticket, scannedBy string) {
	payload, _ := json.Marshal(request.TicketScanned{
		TicketNumber: ticket.TicketNumber,
		EventID:      ticket.EventID.String(),
		ScannedBy:    scannedBy,
		ScannedAt:    ticket.UsedAt.Time.Format(time.RFC3339),
	})
	if err := u.publisher.Publish("ticket_scanned", message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		u.log.Error(ctx, "error publish ticket scanned", err)
	}
}

// proofHash binds a ticket to its attendee identity and event under the
// shared secret.
func (u *usecase) proofHash(ticketNumber, attendeeName, attendeeID, eventID string) string {
	mac := hmac.New(sha256.New, []byte(u.cfg.ProofSecret))
	fmt.Fprintf(mac, "%s|%s|%s|%s", ticketNumber, attendeeName, attendeeID, eventID)
	return hex.EncodeToString(mac.Sum(nil))
}

// buildIssuedTickets regenerates each ticket's QR payload and renders the PNG.
func (u *usecase) buildIssuedTickets(event *evententity.Event, tickets []entity.Ticket) ([]response.IssuedTicket, error) {
	issued := make([]response.IssuedTicket, 0, len(tickets))
	for _, t := range tickets {
		payload, _ := json.Marshal(entity.QRPayload{
			TicketNumber: t.TicketNumber,
			AttendeeName: t.AttendeeName,
			AttendeeID:   t.IdentificationNumber,
			EventID:      event.ID.String(),
			EventName:    event.Name,
			EventDate:    event.EventDate.Format("2006-01-02"),
			IssuedAt:     t.CreatedAt.Unix(),
			Hash:         t.ProofHash,
		})
		png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
		if err != nil {
			return nil, errors.InternalServerError("error generate qr code")
		}
		issued = append(issued, response.IssuedTicket{
			TicketNumber: t.TicketNumber,
			Attendee: response.AttendeeInfo{
				Name:                 t.AttendeeName,
				IdentificationNumber: t.IdentificationNumber,
				Age:                  t.Age,
				Gender:               t.Gender,
				AttendeeEmail:        t.AttendeeEmail,
				TeamName:             t.TeamName,
			},
			QRCode:  base64.StdEncoding.EncodeToString(png),
			Scanned: t.Used,
		})
	}
	return issued, nil
}

func batchResponse(p *entity.Participant, tickets []response.IssuedTicket) response.RegistrationBatch {
	return response.RegistrationBatch{
		ID:       p.ID.String(),
		OrderRef: p.OrderRef,
		EventID:  p.EventID.String(),
		BillingInfo: response.BillingInfo{
			FirstName: p.BillingFirstName,
			LastName:  p.BillingLastName,
			Email:     p.BillingEmail,
			Phone:     p.BillingPhone,
		},
		Tickets:         tickets,
		PaymentStatus:   p.PaymentStatus,
		NumberOfTickets: p.NumberOfTickets,
		ScannedCount:    p.ScannedCount,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

func paymentRecord(p *entity.PaymentDetail, withRefs bool) response.PaymentRecord {
	record := response.PaymentRecord{
		ID:          p.ID,
		Amount:      p.Amount,
		Date:        p.PaidAt.Format(time.RFC3339),
		TicketCount: p.TicketCount,
	}
	if withRefs {
		record.Participant = &response.ParticipantRef{
			ID:           p.ParticipantID.String(),
			Name:         p.AttendeeName,
			BillingEmail: p.BillingEmail,
		}
		record.Event = &response.EventRef{
			ID:   p.EventID.String(),
			Name: p.EventName,
			Date: p.EventDate.Format("2006-01-02"),
		}
	}
	return record
}

func paginate(page, limit int, total int64) response.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return response.Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalPayments: total,
	}
}
