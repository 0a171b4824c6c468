package usecases_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"ticketing-service/config"
	evententity "ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/module/ticket/mocks"
	"ticketing-service/internal/module/ticket/models/entity"
	"ticketing-service/internal/module/ticket/models/request"
	"ticketing-service/internal/module/ticket/usecases"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"
	log_internal "ticketing-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	uc       usecases.Usecase
	repoMock *mocks.Repositories
	logMock  log.Logger
	p        message.Publisher
	cfg      = config.TicketingConfig{
		ProofSecret:  "test-secret",
		TicketPrefix: "TCK",
	}
)

type mockPublisher struct{}

// Close implements message.Publisher.
func (m *mockPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	return nil
}

func NewMockPublisher() message.Publisher {
	return &mockPublisher{}
}

func setup() {
	repoMock = new(mocks.Repositories)
	p = NewMockPublisher()
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logMock = log_internal.GetLogger()
	uc = usecases.New(repoMock, logMock, p, &cfg)
}

func teardown() {
	repoMock = nil
	uc = nil
}

func proofHash(ticketNumber, attendeeName, attendeeID, eventID string) string {
	mac := hmac.New(sha256.New, []byte(cfg.ProofSecret))
	fmt.Fprintf(mac, "%s|%s|%s|%s", ticketNumber, attendeeName, attendeeID, eventID)
	return hex.EncodeToString(mac.Sum(nil))
}

func upcomingEvent(id uuid.UUID, maximum, consumed int) evententity.Event {
	return evententity.Event{
		ID:        id,
		Kind:      evententity.KindSports,
		Name:      "City Marathon",
		EventDate: time.Now(),
		SportType: evententity.SportTypeIndividual,
		CapacityLedger: evententity.CapacityLedger{
			MaximumOccupancy: maximum,
			Consumed:         consumed,
		},
		Status: evententity.StatusUpcoming,
	}
}

func registerPayload(n int) *request.RegisterWithPayment {
	attendees := make([]request.Attendee, 0, n)
	for i := 0; i < n; i++ {
		attendees = append(attendees, request.Attendee{
			Name:                 fmt.Sprintf("Runner %d", i+1),
			IdentificationNumber: fmt.Sprintf("ID-%03d", i+1),
			Age:                  30,
			Gender:               "female",
		})
	}
	return &request.RegisterWithPayment{
		OrderRef:         "ORD-1001",
		BillingFirstName: "Jane",
		BillingLastName:  "Doe",
		BillingEmail:     "jane@test.com",
		BillingPhone:     "+123456789",
		Attendees:        attendees,
		Amount:           50.0 * float64(n),
		NumberOfTickets:  n,
	}
}

func TestRegisterWithPayment(t *testing.T) {
	setup()
	defer teardown()

	eventID := uuid.New()

	t.Run("success issues one ticket per attendee", func(t *testing.T) {
		ctx := context.Background()
		payload := registerPayload(2)

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 10), nil)
		repoMock.On("CheckAvailableCapacity", ctx, eventID.String()).Return(int64(90), nil)
		repoMock.On("CreateRegistration", ctx, mock.Anything, mock.Anything, mock.Anything).Return(88, nil)
		repoMock.On("SyncAvailableCapacity", ctx, eventID.String(), 88).Return(nil)

		resp, err := uc.RegisterWithPayment(ctx, eventID.String(), payload)
		assert.NoError(t, err)
		assert.Len(t, resp.Participant.Tickets, 2)
		assert.Equal(t, "successful", resp.Participant.PaymentStatus)
		assert.Equal(t, 2, resp.Participant.NumberOfTickets)
		assert.Equal(t, 0, resp.Participant.ScannedCount)
		assert.Equal(t, 100.0, resp.Payment.Amount)

		seen := map[string]bool{}
		for _, ticket := range resp.Participant.Tickets {
			assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TCK-"))
			assert.False(t, seen[ticket.TicketNumber], "ticket numbers must be unique")
			seen[ticket.TicketNumber] = true
			assert.NotEmpty(t, ticket.QRCode)
			assert.False(t, ticket.Scanned)
		}
	})

	t.Run("attendee count mismatch persists nothing", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payload := registerPayload(2)
		payload.NumberOfTickets = 3

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 10), nil)

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), payload)
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		repoMock.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache pre-check rejects oversized batch", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payload := registerPayload(3)

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 98), nil)
		repoMock.On("CheckAvailableCapacity", ctx, eventID.String()).Return(int64(2), nil)

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), payload)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only 2 spots available, but requested 3 tickets")
		repoMock.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ceiling enforced by the transaction", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payload := registerPayload(2)

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 99), nil)
		repoMock.On("CheckAvailableCapacity", ctx, eventID.String()).Return(int64(0), errors.InternalServerError("error get available capacity"))
		repoMock.On("CreateRegistration", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(0, errors.BadRequest("only 1 spots available, but requested 2 tickets"))

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), payload)
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		repoMock.AssertNotCalled(t, "SyncAvailableCapacity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completed event rejects registration", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event := upcomingEvent(eventID, 100, 10)
		event.Status = evententity.StatusCompleted

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(event, nil)

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), registerPayload(1))
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
	})

	t.Run("qr render failure persists nothing", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payload := registerPayload(1)
		// past the qrcode payload capacity
		payload.Attendees[0].Name = strings.Repeat("a", 3000)

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 10), nil)
		repoMock.On("CheckAvailableCapacity", ctx, eventID.String()).Return(int64(90), nil)

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), payload)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error generate qr code")
		repoMock.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("team sport requires team name", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event := upcomingEvent(eventID, 100, 10)
		event.SportType = evententity.SportTypeTeam

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(event, nil)

		_, err := uc.RegisterWithPayment(ctx, eventID.String(), registerPayload(1))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "team_name is required")
		repoMock.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func scanFixture(t *testing.T) (evententity.Event, entity.Ticket, *request.ScanTicket) {
	t.Helper()

	eventID := uuid.New()
	participantID := uuid.New()
	event := upcomingEvent(eventID, 100, 10)

	ticketNumber := "TCK-" + uuid.NewString()
	ticket := entity.Ticket{
		TicketNumber:         ticketNumber,
		ParticipantID:        participantID,
		EventID:              eventID,
		AttendeeName:         "Jane Doe",
		IdentificationNumber: "ID-001",
		ProofHash:            proofHash(ticketNumber, "Jane Doe", "ID-001", eventID.String()),
		CreatedAt:            time.Now(),
	}

	payload, _ := json.Marshal(entity.QRPayload{
		TicketNumber: ticket.TicketNumber,
		AttendeeName: ticket.AttendeeName,
		AttendeeID:   ticket.IdentificationNumber,
		EventID:      eventID.String(),
		EventName:    event.Name,
		EventDate:    event.EventDate.Format("2006-01-02"),
		IssuedAt:     ticket.CreatedAt.Unix(),
		Hash:         ticket.ProofHash,
	})

	return event, ticket, &request.ScanTicket{
		QRPayload:      string(payload),
		ClaimedEventID: eventID.String(),
	}
}

func TestRedeemTicket(t *testing.T) {
	setup()
	defer teardown()

	t.Run("round trip on the event day", func(t *testing.T) {
		ctx := context.Background()
		event, ticket, scan := scanFixture(t)

		flipped := ticket
		flipped.Used = true
		flipped.UsedAt = sql.NullTime{Time: time.Now(), Valid: true}
		flipped.UsedBy = sql.NullString{String: "gate@test.com", Valid: true}

		repoMock.On("AcquireTicketLock", ctx, ticket.TicketNumber).Return(func() error { return nil }, nil)
		repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
		repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)
		repoMock.On("RedeemTicket", ctx, ticket.TicketNumber, "gate@test.com").Return(entity.RedeemedTicket{
			Ticket:          flipped,
			ScannedCount:    1,
			NumberOfTickets: 2,
		}, nil)

		resp, err := uc.RedeemTicket(ctx, scan, "gate@test.com")
		assert.NoError(t, err)
		assert.Equal(t, ticket.TicketNumber, resp.TicketNumber)
		assert.Equal(t, "Jane Doe", resp.AttendeeName)
		assert.False(t, resp.AllTicketsScanned)
		assert.Equal(t, 1, resp.RemainingTickets)
	})

	t.Run("last ticket of the batch closes it", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event, ticket, scan := scanFixture(t)

		flipped := ticket
		flipped.Used = true
		flipped.UsedAt = sql.NullTime{Time: time.Now(), Valid: true}

		repoMock.On("AcquireTicketLock", ctx, ticket.TicketNumber).Return(func() error { return nil }, nil)
		repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
		repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)
		repoMock.On("RedeemTicket", ctx, ticket.TicketNumber, "").Return(entity.RedeemedTicket{
			Ticket:          flipped,
			ScannedCount:    2,
			NumberOfTickets: 2,
		}, nil)

		resp, err := uc.RedeemTicket(ctx, scan, "")
		assert.NoError(t, err)
		assert.True(t, resp.AllTicketsScanned)
		assert.Equal(t, 0, resp.RemainingTickets)
	})

	t.Run("tampered payload is rejected before the flip", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event, ticket, _ := scanFixture(t)

		// attendee swapped after issuance, hash no longer matches
		forged, _ := json.Marshal(entity.QRPayload{
			TicketNumber: ticket.TicketNumber,
			AttendeeName: "Impostor",
			AttendeeID:   "ID-999",
			EventID:      event.ID.String(),
			Hash:         proofHash(ticket.TicketNumber, "Impostor", "ID-999", event.ID.String()),
		})
		scan := &request.ScanTicket{QRPayload: string(forged), ClaimedEventID: event.ID.String()}

		repoMock.On("AcquireTicketLock", ctx, ticket.TicketNumber).Return(func() error { return nil }, nil)
		repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
		repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)

		_, err := uc.RedeemTicket(ctx, scan, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "tampered")
		repoMock.AssertNotCalled(t, "RedeemTicket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ticket bound to another event", func(t *testing.T) {
		setup()
		ctx := context.Background()
		_, _, scan := scanFixture(t)
		scan.ClaimedEventID = uuid.NewString()

		_, err := uc.RedeemTicket(ctx, scan, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong to this event")
		repoMock.AssertNotCalled(t, "FindTicketByNumber", mock.Anything, mock.Anything)
	})

	t.Run("scan outside the event day", func(t *testing.T) {
		cases := []struct {
			name   string
			offset int
		}{
			{name: "day before the event", offset: 1},
			{name: "day after the event", offset: -1},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				setup()
				ctx := context.Background()
				event, ticket, scan := scanFixture(t)
				event.EventDate = time.Now().AddDate(0, 0, tc.offset)

				repoMock.On("AcquireTicketLock", ctx, ticket.TicketNumber).Return(func() error { return nil }, nil)
				repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
				repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)

				_, err := uc.RedeemTicket(ctx, scan, "")
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "only valid on the event date")
				repoMock.AssertNotCalled(t, "RedeemTicket", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("payload stripped of its hash is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event, ticket, _ := scanFixture(t)

		stripped, _ := json.Marshal(entity.QRPayload{
			TicketNumber: ticket.TicketNumber,
			EventID:      event.ID.String(),
		})

		_, err := uc.RedeemTicket(ctx, &request.ScanTicket{QRPayload: string(stripped), ClaimedEventID: event.ID.String()}, "")
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		repoMock.AssertNotCalled(t, "AcquireTicketLock", mock.Anything, mock.Anything)
	})

	t.Run("second scan reports the original", func(t *testing.T) {
		setup()
		ctx := context.Background()
		event, ticket, scan := scanFixture(t)

		repoMock.On("AcquireTicketLock", ctx, ticket.TicketNumber).Return(func() error { return nil }, nil)
		repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
		repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)
		repoMock.On("RedeemTicket", ctx, ticket.TicketNumber, "").Return(entity.RedeemedTicket{},
			errors.BadRequest("ticket already scanned at 2026-08-31 09:00:00 by gate@test.com"))

		_, err := uc.RedeemTicket(ctx, scan, "")
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		assert.Contains(t, err.Error(), "already scanned")
	})

	t.Run("garbled payload", func(t *testing.T) {
		setup()
		ctx := context.Background()

		_, err := uc.RedeemTicket(ctx, &request.ScanTicket{QRPayload: "{not json", ClaimedEventID: "x"}, "")
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
	})
}

func TestGetParticipantByTicket(t *testing.T) {
	setup()
	defer teardown()

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		event, ticket, _ := scanFixture(t)
		ticket.Used = true

		participant := entity.Participant{
			ID:               ticket.ParticipantID,
			EventID:          event.ID,
			OrderRef:         "ORD-1001",
			BillingFirstName: "Jane",
			BillingLastName:  "Doe",
			BillingEmail:     "jane@test.com",
			PaymentStatus:    entity.PaymentSuccessful,
			NumberOfTickets:  1,
			ScannedCount:     1,
			CreatedAt:        time.Now(),
		}

		repoMock.On("FindTicketByNumber", ctx, ticket.TicketNumber).Return(ticket, nil)
		repoMock.On("FindParticipantByID", ctx, participant.ID.String()).Return(participant, nil)
		repoMock.On("FindEventByID", ctx, event.ID.String()).Return(event, nil)
		repoMock.On("FindTicketsByParticipant", ctx, participant.ID.String()).Return([]entity.Ticket{ticket}, nil)

		resp, err := uc.GetParticipantByTicket(ctx, ticket.TicketNumber)
		assert.NoError(t, err)
		assert.True(t, resp.CurrentTicketScanned)
		assert.Equal(t, "ORD-1001", resp.Batch.OrderRef)
		assert.Len(t, resp.Batch.Tickets, 1)
		assert.True(t, resp.Batch.Tickets[0].Scanned)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		setup()
		ctx := context.Background()

		repoMock.On("FindTicketByNumber", ctx, "TCK-missing").Return(entity.Ticket{}, errors.NotFound("ticket not found"))

		_, err := uc.GetParticipantByTicket(ctx, "TCK-missing")
		assert.Error(t, err)
		assert.Equal(t, 404, errors.HttpCode(err))
	})
}

func TestListPaymentsByEvent(t *testing.T) {
	setup()
	defer teardown()

	t.Run("summary assembled from the ledger", func(t *testing.T) {
		ctx := context.Background()
		eventID := uuid.New()
		event := upcomingEvent(eventID, 100, 10)

		details := []entity.PaymentDetail{
			{ID: 1, Amount: 100, PaidAt: time.Now(), TicketCount: 2, ParticipantID: uuid.New(), EventID: eventID, EventName: event.Name, EventDate: event.EventDate},
		}

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(event, nil)
		repoMock.On("FindPayments", ctx, eventID.String(), 1, 10).Return(details, int64(12), nil)
		repoMock.On("SumRevenueByEvent", ctx, eventID.String()).Return(640.0, nil)
		repoMock.On("CountPaymentsByStatus", ctx, eventID.String(), entity.PaymentSuccessful).Return(int64(11), nil)
		repoMock.On("CountPaymentsByStatus", ctx, eventID.String(), entity.PaymentFailed).Return(int64(1), nil)

		resp, err := uc.ListPaymentsByEvent(ctx, eventID.String(), 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, 640.0, resp.Summary.TotalRevenue)
		assert.Equal(t, int64(12), resp.Summary.TotalPayments)
		assert.Equal(t, int64(11), resp.Summary.SuccessfulPayments)
		assert.Equal(t, int64(1), resp.Summary.FailedPayments)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
		assert.Len(t, resp.Payments, 1)
	})
}

func TestSendRegistrationConfirmation(t *testing.T) {
	setup()
	defer teardown()

	t.Run("composes the confirmation email", func(t *testing.T) {
		ctx := context.Background()
		eventID := uuid.New()
		event := upcomingEvent(eventID, 100, 10)

		payload := &request.RegistrationConfirmed{
			ParticipantID:  uuid.NewString(),
			OrderRef:       "ORD-1001",
			EmailRecipient: "jane@test.com",
			RecipientName:  "Jane Doe",
			EventID:        eventID.String(),
			TicketNumbers:  []string{"TCK-a", "TCK-b"},
			Amount:         100,
		}

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(event, nil)
		repoMock.On("SendNotification", ctx, mock.MatchedBy(func(msg *request.NotificationMessage) bool {
			return msg.EmailRecipient == "jane@test.com" &&
				strings.Contains(msg.Subject, event.Name) &&
				strings.Contains(msg.HTMLBody, "TCK-a") &&
				strings.Contains(msg.HTMLBody, "ORD-1001")
		})).Return(nil)

		err := uc.SendRegistrationConfirmation(ctx, payload)
		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("notification failure propagates for retry", func(t *testing.T) {
		setup()
		ctx := context.Background()
		eventID := uuid.New()

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(upcomingEvent(eventID, 100, 10), nil)
		repoMock.On("SendNotification", ctx, mock.Anything).Return(errors.UpstreamError("error send notification"))

		err := uc.SendRegistrationConfirmation(ctx, &request.RegistrationConfirmed{
			ParticipantID:  uuid.NewString(),
			OrderRef:       "ORD-1",
			EmailRecipient: "x@test.com",
			RecipientName:  "X",
			EventID:        eventID.String(),
			TicketNumbers:  []string{"TCK-a"},
			Amount:         1,
		})
		assert.Error(t, err)
		assert.Equal(t, 502, errors.HttpCode(err))
	})
}
