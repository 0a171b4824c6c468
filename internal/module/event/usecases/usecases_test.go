package usecases_test

import (
	"context"
	"testing"
	"time"

	categoryentity "ticketing-service/internal/module/category/models/entity"
	"ticketing-service/internal/module/event/mocks"
	"ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/module/event/models/request"
	"ticketing-service/internal/module/event/usecases"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"
	log_internal "ticketing-service/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	uc       usecases.Usecase
	repoMock *mocks.Repositories
	logMock  log.Logger
)

func setup() {
	repoMock = new(mocks.Repositories)
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logMock = log_internal.GetLogger()
	uc = usecases.New(repoMock, logMock)
}

func teardown() {
	repoMock = nil
	uc = nil
}

func TestCreateEvent(t *testing.T) {
	setup()
	defer teardown()

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		payload := &request.CreateEvent{
			EventName:        "Tech Conference",
			Venue:            "Convention Center",
			Date:             "2026-10-15",
			Category:         "Technology",
			MaximumOccupancy: 500,
		}

		repoMock.On("FindCategoryByName", ctx, "Technology").Return(categoryentity.Category{
			ID:   uuid.New(),
			Name: "Technology",
			Type: categoryentity.TypeEvent,
		}, nil)
		repoMock.On("InsertEvent", ctx, mock.Anything).Return(nil)
		repoMock.On("SeedAvailableCapacity", ctx, mock.Anything, 500).Return(nil)
		repoMock.On("SetTaskScheduler", ctx, mock.Anything, mock.Anything).Return("task-1", nil)
		repoMock.On("UpdateEventTaskID", ctx, mock.Anything, "task-1").Return(nil)

		resp, err := uc.CreateEvent(ctx, payload)
		assert.NoError(t, err)
		assert.Equal(t, "Tech Conference", resp.Name)
		assert.Equal(t, entity.StatusUpcoming, resp.Status)
		assert.Equal(t, 500, resp.TicketStatus.MaximumOccupancy)
	})

	t.Run("unknown category", func(t *testing.T) {
		setup()
		ctx := context.Background()

		repoMock.On("FindCategoryByName", ctx, "Nope").Return(categoryentity.Category{}, errors.NotFound("category not found"))

		_, err := uc.CreateEvent(ctx, &request.CreateEvent{
			EventName:        "X",
			Venue:            "Y",
			Date:             "2026-10-15",
			Category:         "Nope",
			MaximumOccupancy: 10,
		})
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		assert.Contains(t, err.Error(), "invalid category")
		repoMock.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything)
	})

	t.Run("malformed date", func(t *testing.T) {
		setup()
		ctx := context.Background()

		repoMock.On("FindCategoryByName", ctx, "Technology").Return(categoryentity.Category{Name: "Technology"}, nil)

		_, err := uc.CreateEvent(ctx, &request.CreateEvent{
			EventName:        "X",
			Venue:            "Y",
			Date:             "15/10/2026",
			Category:         "Technology",
			MaximumOccupancy: 10,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected format 2006-01-02")
	})
}

func TestUpdateEvent(t *testing.T) {
	setup()
	defer teardown()

	eventID := uuid.New()

	existing := entity.Event{
		ID:        eventID,
		Kind:      entity.KindSports,
		Name:      "City Marathon",
		EventDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local),
		SportType: entity.SportTypeIndividual,
		CapacityLedger: entity.CapacityLedger{
			MaximumOccupancy: 100,
			Consumed:         40,
			Unscanned:        40,
		},
		Status: entity.StatusUpcoming,
	}

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		ctx := context.Background()
		venue := "New Stadium"

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(existing, nil)
		repoMock.On("UpdateEvent", ctx, mock.Anything).Return(nil)

		resp, err := uc.UpdateEvent(ctx, eventID.String(), &request.UpdateEvent{Venue: &venue}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "New Stadium", resp.Venue)
		assert.Equal(t, "City Marathon", resp.Name)
		assert.Equal(t, 40, resp.TicketStatus.Consumed)
	})

	t.Run("rejects counters that break the ledger", func(t *testing.T) {
		setup()
		ctx := context.Background()
		maximum := 30 // below the 40 already consumed

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(existing, nil)

		_, err := uc.UpdateEvent(ctx, eventID.String(), &request.UpdateEvent{MaximumOccupancy: &maximum}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "capacity counters out of range")
		repoMock.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything)
	})

	t.Run("capacity raise re-seeds the availability cache", func(t *testing.T) {
		setup()
		ctx := context.Background()
		maximum := 150 // 40 consumed, so 110 available

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(existing, nil)
		repoMock.On("UpdateEvent", ctx, mock.Anything).Return(nil)
		repoMock.On("SeedAvailableCapacity", ctx, eventID.String(), 110).Return(nil)

		_, err := uc.UpdateEvent(ctx, eventID.String(), &request.UpdateEvent{MaximumOccupancy: &maximum}, nil)
		assert.NoError(t, err)
		repoMock.AssertCalled(t, "SeedAvailableCapacity", ctx, eventID.String(), 110)
	})

	t.Run("untouched ledger leaves the cache alone", func(t *testing.T) {
		setup()
		ctx := context.Background()
		venue := "Side Hall"

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(existing, nil)
		repoMock.On("UpdateEvent", ctx, mock.Anything).Return(nil)

		_, err := uc.UpdateEvent(ctx, eventID.String(), &request.UpdateEvent{Venue: &venue}, nil)
		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "SeedAvailableCapacity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("date change reschedules the completion task", func(t *testing.T) {
		setup()
		ctx := context.Background()
		newDate := "2026-11-01"

		repoMock.On("FindEventByID", ctx, eventID.String()).Return(existing, nil)
		repoMock.On("UpdateEvent", ctx, mock.Anything).Return(nil)
		repoMock.On("SetTaskScheduler", ctx, mock.Anything, mock.Anything).Return("task-2", nil)
		repoMock.On("UpdateEventTaskID", ctx, eventID.String(), "task-2").Return(nil)

		resp, err := uc.UpdateEvent(ctx, eventID.String(), &request.UpdateEvent{Date: &newDate}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "2026-11-01 00:00:00", resp.Date)
		repoMock.AssertCalled(t, "SetTaskScheduler", ctx, mock.Anything, mock.Anything)
	})
}

func TestMarkEventCompleted(t *testing.T) {
	setup()
	defer teardown()

	t.Run("flips only live statuses", func(t *testing.T) {
		ctx := context.Background()
		eventID := uuid.NewString()

		repoMock.On("UpdateEventStatus", ctx, eventID,
			[]string{entity.StatusUpcoming, entity.StatusOngoing}, entity.StatusCompleted).Return(nil)

		err := uc.MarkEventCompleted(ctx, &request.EventCompletion{EventID: eventID})
		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})
}

func TestListSportsByCategory(t *testing.T) {
	setup()
	defer teardown()

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		category := categoryentity.Category{
			ID:   uuid.New(),
			Name: "Running",
			Type: categoryentity.TypeSports,
		}
		sports := []entity.Event{
			{ID: uuid.New(), Kind: entity.KindSports, Name: "5K Fun Run", Category: "Running"},
			{ID: uuid.New(), Kind: entity.KindSports, Name: "Half Marathon", Category: "Running"},
		}

		repoMock.On("FindCategoryByName", ctx, "Running").Return(category, nil)
		repoMock.On("FindEventsByCategory", ctx, entity.KindSports, "Running").Return(sports, nil)

		resp, err := uc.ListSportsByCategory(ctx, "Running")
		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, "Running", resp.Category.Name)
		assert.Len(t, resp.Sports, 2)
	})
}
