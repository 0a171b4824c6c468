package usecases

import (
	"context"
	"fmt"
	"time"

	"ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/module/event/models/request"
	"ticketing-service/internal/module/event/models/response"
	"ticketing-service/internal/module/event/repositories"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"

	"github.com/goccy/go-json"
)

type usecase struct {
	repo repositories.Repositories
	log  log.Logger
}

type Usecase interface {
	CreateEvent(ctx context.Context, payload *request.CreateEvent) (response.Event, error)
	CreateSport(ctx context.Context, payload *request.CreateSport, image *request.ImageAttachment) (response.Event, error)
	ListEvents(ctx context.Context, kind string) ([]response.Event, error)
	GetEvent(ctx context.Context, id string) (response.Event, error)
	ListSportsByCategory(ctx context.Context, categoryName string) (response.SportsByCategory, error)
	UpdateEvent(ctx context.Context, id string, payload *request.UpdateEvent, image *request.ImageAttachment) (response.Event, error)
	DeleteEvent(ctx context.Context, id string) (response.DeletedEvent, error)
	MarkEventCompleted(ctx context.Context, payload *request.EventCompletion) error
}

func New(repo repositories.Repositories, log log.Logger) Usecase {
	return &usecase{
		repo: repo,
		log:  log,
	}
}

func (u *usecase) CreateEvent(ctx context.Context, payload *request.CreateEvent) (response.Event, error) {
	if _, err := u.repo.FindCategoryByName(ctx, payload.Category); err != nil {
		if errors.HttpCode(err) == 404 {
			return response.Event{}, errors.BadRequest("invalid category, please select an existing category")
		}
		return response.Event{}, err
	}

	status := payload.Status
	if status == "" {
		status = entity.StatusUpcoming
	}
	if !entity.ValidStatus(status) {
		return response.Event{}, errors.BadRequest("invalid event status")
	}

	eventDate, err := time.ParseInLocation(request.DateLayout, payload.Date, time.Local)
	if err != nil {
		return response.Event{}, errors.BadRequest("invalid date, expected format 2006-01-02")
	}

	now := time.Now()
	event := entity.Event{
		Kind:        entity.KindEvent,
		Name:        payload.EventName,
		Venue:       payload.Venue,
		EventDate:   eventDate,
		Category:    payload.Category,
		Image:       payload.Image,
		Description: payload.Description,
		CapacityLedger: entity.CapacityLedger{
			MaximumOccupancy: payload.MaximumOccupancy,
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.repo.InsertEvent(ctx, &event); err != nil {
		return response.Event{}, err
	}

	u.afterInsert(ctx, &event)

	return response.FromEntity(event), nil
}

func (u *usecase) CreateSport(ctx context.Context, payload *request.CreateSport, image *request.ImageAttachment) (response.Event, error) {
	if _, err := u.repo.FindCategoryByName(ctx, payload.Category); err != nil {
		if errors.HttpCode(err) == 404 {
			return response.Event{}, errors.BadRequest("invalid category, please select an existing category")
		}
		return response.Event{}, err
	}

	sportType := payload.SportType
	if sportType == "" {
		sportType = entity.SportTypeIndividual
	}
	if !entity.ValidSportType(sportType) {
		return response.Event{}, errors.BadRequest("invalid sport type, must be one of: individual, team, both")
	}

	status := payload.Status
	if status == "" {
		status = entity.StatusUpcoming
	}
	if !entity.ValidStatus(status) {
		return response.Event{}, errors.BadRequest("invalid sport status")
	}

	teamSize := payload.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}

	eventDate, err := time.ParseInLocation(request.DateLayout, payload.Date, time.Local)
	if err != nil {
		return response.Event{}, errors.BadRequest("invalid date, expected format 2006-01-02")
	}

	// Upload before persisting anything; an upstream failure must leave no
	// partial entity behind.
	imageURL := ""
	if image != nil {
		url, err := u.repo.UploadImage(ctx, image.Filename, image.Data)
		if err != nil {
			return response.Event{}, err
		}
		imageURL = url
	}

	now := time.Now()
	event := entity.Event{
		Kind:            entity.KindSports,
		Name:            payload.SportName,
		Venue:           payload.Venue,
		EventDate:       eventDate,
		EventTime:       payload.Time,
		Category:        payload.Category,
		Image:           imageURL,
		Description:     payload.Description,
		RegistrationFee: payload.RegistrationFee,
		SportType:       sportType,
		TeamSize:        teamSize,
		CapacityLedger: entity.CapacityLedger{
			MaximumOccupancy: payload.MaximumParticipants,
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.repo.InsertEvent(ctx, &event); err != nil {
		return response.Event{}, err
	}

	u.afterInsert(ctx, &event)

	return response.FromEntity(event), nil
}

// afterInsert seeds the availability cache and schedules the completion task.
// Both are auxiliary; failures are logged, the event itself is already
// durable.
func (u *usecase) afterInsert(ctx context.Context, event *entity.Event) {
	if err := u.repo.SeedAvailableCapacity(ctx, event.ID.String(), event.Available()); err != nil {
		u.log.Error(ctx, "error seed availability cache", err)
	}

	payload, _ := json.Marshal(request.EventCompletion{EventID: event.ID.String()})
	taskID, err := u.repo.SetTaskScheduler(ctx, endOfDay(event.EventDate), payload)
	if err != nil {
		u.log.Error(ctx, "error schedule event completion", err)
		return
	}
	if err := u.repo.UpdateEventTaskID(ctx, event.ID.String(), taskID); err != nil {
		u.log.Error(ctx, "error store completion task id", err)
		return
	}
	event.TaskID.String = taskID
	event.TaskID.Valid = true
}

func (u *usecase) ListEvents(ctx context.Context, kind string) ([]response.Event, error) {
	events, err := u.repo.FindEvents(ctx, kind)
	if err != nil {
		return nil, err
	}

	resp := make([]response.Event, 0, len(events))
	for _, e := range events {
		resp = append(resp, response.FromEntity(e))
	}
	return resp, nil
}

func (u *usecase) GetEvent(ctx context.Context, id string) (response.Event, error) {
	event, err := u.repo.FindEventByID(ctx, id)
	if err != nil {
		return response.Event{}, err
	}
	return response.FromEntity(event), nil
}

func (u *usecase) ListSportsByCategory(ctx context.Context, categoryName string) (response.SportsByCategory, error) {
	category, err := u.repo.FindCategoryByName(ctx, categoryName)
	if err != nil {
		return response.SportsByCategory{}, err
	}

	sports, err := u.repo.FindEventsByCategory(ctx, entity.KindSports, categoryName)
	if err != nil {
		return response.SportsByCategory{}, err
	}

	resp := response.SportsByCategory{
		Category: response.CategorySummary{
			ID:          category.ID.String(),
			Name:        category.Name,
			Description: category.Description,
			Type:        category.Type,
		},
		Count:  len(sports),
		Sports: make([]response.Event, 0, len(sports)),
	}
	for _, s := range sports {
		resp.Sports = append(resp.Sports, response.FromEntity(s))
	}
	return resp, nil
}

func (u *usecase) UpdateEvent(ctx context.Context, id string, payload *request.UpdateEvent, image *request.ImageAttachment) (response.Event, error) {
	event, err := u.repo.FindEventByID(ctx, id)
	if err != nil {
		return response.Event{}, err
	}

	if payload.Category != nil {
		if _, err := u.repo.FindCategoryByName(ctx, *payload.Category); err != nil {
			if errors.HttpCode(err) == 404 {
				return response.Event{}, errors.BadRequest("invalid category, please select an existing category")
			}
			return response.Event{}, err
		}
		event.Category = *payload.Category
	}

	if payload.Status != nil {
		if !entity.ValidStatus(*payload.Status) {
			return response.Event{}, errors.BadRequest("invalid event status")
		}
		event.Status = *payload.Status
	}
	if payload.SportType != nil {
		if !entity.ValidSportType(*payload.SportType) {
			return response.Event{}, errors.BadRequest("invalid sport type, must be one of: individual, team, both")
		}
		event.SportType = *payload.SportType
	}

	if payload.Name != nil {
		event.Name = *payload.Name
	}
	if payload.Venue != nil {
		event.Venue = *payload.Venue
	}
	if payload.Time != nil {
		event.EventTime = *payload.Time
	}
	if payload.Image != nil {
		event.Image = *payload.Image
	}
	if payload.Description != nil {
		event.Description = *payload.Description
	}
	if payload.RegistrationFee != nil {
		event.RegistrationFee = *payload.RegistrationFee
	}
	if payload.TeamSize != nil {
		event.TeamSize = *payload.TeamSize
	}
	ledgerChanged := false
	if payload.MaximumOccupancy != nil {
		event.MaximumOccupancy = *payload.MaximumOccupancy
		ledgerChanged = true
	}
	if payload.Consumed != nil {
		event.Consumed = *payload.Consumed
		ledgerChanged = true
	}
	if payload.Unscanned != nil {
		event.Unscanned = *payload.Unscanned
		ledgerChanged = true
	}
	if payload.ConfirmedPayments != nil {
		event.ConfirmedPayments = *payload.ConfirmedPayments
		ledgerChanged = true
	}

	if !event.CapacityLedger.Valid() {
		return response.Event{}, errors.BadRequest(fmt.Sprintf(
			"capacity counters out of range: consumed %d, unscanned %d, maximum %d",
			event.Consumed, event.Unscanned, event.MaximumOccupancy))
	}

	// A replacement upload swaps the blob before the row is written; the old
	// blob removal is best effort.
	if image != nil {
		if event.Image != "" {
			if err := u.repo.DeleteImage(ctx, event.Image); err != nil {
				u.log.Error(ctx, "error delete old image", err)
			}
		}
		url, err := u.repo.UploadImage(ctx, image.Filename, image.Data)
		if err != nil {
			return response.Event{}, err
		}
		event.Image = url
	}

	dateChanged := false
	if payload.Date != nil {
		newDate, err := time.ParseInLocation(request.DateLayout, *payload.Date, time.Local)
		if err != nil {
			return response.Event{}, errors.BadRequest("invalid date, expected format 2006-01-02")
		}
		if !newDate.Equal(event.EventDate) {
			event.EventDate = newDate
			dateChanged = true
		}
	}

	event.UpdatedAt = time.Now()
	if err := u.repo.UpdateEvent(ctx, &event); err != nil {
		return response.Event{}, err
	}

	// The cached availability must track the ledger, or a raised ceiling on a
	// sold-out event keeps rejecting registrations forever.
	if ledgerChanged {
		if err := u.repo.SeedAvailableCapacity(ctx, event.ID.String(), event.Available()); err != nil {
			u.log.Error(ctx, "error reseed availability cache", err)
		}
	}

	if dateChanged {
		u.reschedule(ctx, &event)
	}

	return response.FromEntity(event), nil
}

func (u *usecase) reschedule(ctx context.Context, event *entity.Event) {
	if event.TaskID.Valid {
		if err := u.repo.DeleteTaskScheduler(ctx, event.TaskID.String); err != nil {
			u.log.Error(ctx, "error delete stale completion task", err)
		}
	}
	payload, _ := json.Marshal(request.EventCompletion{EventID: event.ID.String()})
	taskID, err := u.repo.SetTaskScheduler(ctx, endOfDay(event.EventDate), payload)
	if err != nil {
		u.log.Error(ctx, "error reschedule event completion", err)
		return
	}
	if err := u.repo.UpdateEventTaskID(ctx, event.ID.String(), taskID); err != nil {
		u.log.Error(ctx, "error store completion task id", err)
	}
}

func (u *usecase) DeleteEvent(ctx context.Context, id string) (response.DeletedEvent, error) {
	event, err := u.repo.DeleteEvent(ctx, id)
	if err != nil {
		return response.DeletedEvent{}, err
	}

	if event.TaskID.Valid {
		if err := u.repo.DeleteTaskScheduler(ctx, event.TaskID.String); err != nil {
			u.log.Error(ctx, "error delete completion task", err)
		}
	}
	if event.Image != "" {
		if err := u.repo.DeleteImage(ctx, event.Image); err != nil {
			u.log.Error(ctx, "error delete event image", err)
		}
	}

	return response.DeletedEvent{
		ID:   event.ID.String(),
		Name: event.Name,
	}, nil
}

func (u *usecase) MarkEventCompleted(ctx context.Context, payload *request.EventCompletion) error {
	return u.repo.UpdateEventStatus(ctx, payload.EventID,
		[]string{entity.StatusUpcoming, entity.StatusOngoing}, entity.StatusCompleted)
}

// endOfDay returns the first instant after the event's calendar day, when the
// completion task fires.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
