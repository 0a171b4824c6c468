package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"time"

	"ticketing-service/config"
	categoryentity "ticketing-service/internal/module/category/models/entity"
	"ticketing-service/internal/module/event/models/entity"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/helpers"
	"ticketing-service/internal/pkg/log"
	"ticketing-service/internal/pkg/scheduler"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
)

const availabilityKeyPrefix = "event:available:"

type repositories struct {
	db             *sqlx.DB
	log            log.Logger
	httpClient     *circuit.HTTPClient
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	cfgBlob        *config.BlobStorageConfig
}

type Repositories interface {
	// db
	FindEventByID(ctx context.Context, id string) (entity.Event, error)
	FindEvents(ctx context.Context, kind string) ([]entity.Event, error)
	FindEventsByCategory(ctx context.Context, kind string, categoryName string) ([]entity.Event, error)
	FindCategoryByName(ctx context.Context, name string) (categoryentity.Category, error)
	InsertEvent(ctx context.Context, event *entity.Event) error
	UpdateEvent(ctx context.Context, event *entity.Event) error
	UpdateEventTaskID(ctx context.Context, id string, taskID string) error
	UpdateEventStatus(ctx context.Context, id string, from []string, to string) error
	DeleteEvent(ctx context.Context, id string) (entity.Event, error)
	// blob storage
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
	// redis
	SeedAvailableCapacity(ctx context.Context, eventID string, available int) error
	// scheduler
	SetTaskScheduler(ctx context.Context, processAt time.Time, payload []byte) (string, error)
	DeleteTaskScheduler(ctx context.Context, taskID string) error
}

func New(
	db *sqlx.DB,
	log log.Logger,
	httpClient *circuit.HTTPClient,
	redisClient *redis.Client,
	asynqClient *asynq.Client,
	asynqInspector *asynq.Inspector,
	cfgBlob *config.BlobStorageConfig,
) Repositories {
	return &repositories{
		db:             db,
		log:            log,
		httpClient:     httpClient,
		redisClient:    redisClient,
		asynqClient:    asynqClient,
		asynqInspector: asynqInspector,
		cfgBlob:        cfgBlob,
	}
}

const eventColumns = `id, kind, name, venue, event_date, event_time, category, image, description,
	registration_fee, sport_type, team_size, maximum_occupancy, consumed, unscanned,
	confirmed_payments, status, task_id, created_at, updated_at`

// FindEventByID implements Repositories.
func (r *repositories) FindEventByID(ctx context.Context, id string) (entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err == sql.ErrNoRows {
		return entity.Event{}, errors.NotFound("event not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find event by id", err)
		return entity.Event{}, errors.InternalServerError("error find event by id")
	}
	return event, nil
}

// FindEvents implements Repositories. An empty kind returns every row.
func (r *repositories) FindEvents(ctx context.Context, kind string) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		r.log.Error(ctx, "error find events", err)
		return nil, errors.InternalServerError("error find events")
	}
	return events, nil
}

// FindEventsByCategory implements Repositories.
func (r *repositories) FindEventsByCategory(ctx context.Context, kind string, categoryName string) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE kind = $1 AND category = $2 ORDER BY created_at DESC`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, kind, categoryName); err != nil {
		r.log.Error(ctx, "error find events by category", err)
		return nil, errors.InternalServerError("error find events by category")
	}
	return events, nil
}

// FindCategoryByName implements Repositories.
func (r *repositories) FindCategoryByName(ctx context.Context, name string) (categoryentity.Category, error) {
	query := `SELECT id, name, description, type, created_at FROM categories WHERE name = $1`
	var category categoryentity.Category
	err := r.db.GetContext(ctx, &category, query, name)
	if err == sql.ErrNoRows {
		return categoryentity.Category{}, errors.NotFound("category not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find category by name", err)
		return categoryentity.Category{}, errors.InternalServerError("error find category by name")
	}
	return category, nil
}

// InsertEvent implements Repositories.
func (r *repositories) InsertEvent(ctx context.Context, event *entity.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (:id, :kind, :name, :venue, :event_date, :event_time, :category, :image, :description,
			:registration_fee, :sport_type, :team_size, :maximum_occupancy, :consumed, :unscanned,
			:confirmed_payments, :status, :task_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		r.log.Error(ctx, "error insert event", err)
		return errors.InternalServerError("error insert event")
	}
	return nil
}

// UpdateEvent implements Repositories.
func (r *repositories) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `UPDATE events SET
		name = :name, venue = :venue, event_date = :event_date, event_time = :event_time,
		category = :category, image = :image, description = :description,
		registration_fee = :registration_fee, sport_type = :sport_type, team_size = :team_size,
		maximum_occupancy = :maximum_occupancy, consumed = :consumed, unscanned = :unscanned,
		confirmed_payments = :confirmed_payments, status = :status, task_id = :task_id,
		updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		r.log.Error(ctx, "error update event", err)
		return errors.InternalServerError("error update event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("event not found")
	}
	return nil
}

// UpdateEventTaskID implements Repositories.
func (r *repositories) UpdateEventTaskID(ctx context.Context, id string, taskID string) error {
	query := `UPDATE events SET task_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, taskID); err != nil {
		r.log.Error(ctx, "error update event task id", err)
		return errors.InternalServerError("error update event task id")
	}
	return nil
}

// UpdateEventStatus implements Repositories. The transition applies only when
// the current status is one of from; anything else is a no-op.
func (r *repositories) UpdateEventStatus(ctx context.Context, id string, from []string, to string) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1 AND status = ANY($3)`
	if _, err := r.db.ExecContext(ctx, query, id, to, pq.Array(from)); err != nil {
		r.log.Error(ctx, "error update event status", err)
		return errors.InternalServerError("error update event status")
	}
	return nil
}

// DeleteEvent implements Repositories, returning the removed row.
func (r *repositories) DeleteEvent(ctx context.Context, id string) (entity.Event, error) {
	query := `DELETE FROM events WHERE id = $1 RETURNING ` + eventColumns
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err == sql.ErrNoRows {
		return entity.Event{}, errors.NotFound("event not found")
	}
	if err != nil {
		r.log.Error(ctx, "error delete event", err)
		return entity.Event{}, errors.InternalServerError("error delete event")
	}
	return event, nil
}

// UploadImage implements Repositories. The blob-storage collaborator returns
// a durable URL; any failure aborts the enclosing operation.
func (r *repositories) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.InternalServerError("error build upload request")
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.InternalServerError("error build upload request")
	}
	if err := writer.WriteField("folder", r.cfgBlob.Folder); err != nil {
		return "", errors.InternalServerError("error build upload request")
	}
	if err := writer.Close(); err != nil {
		return "", errors.InternalServerError("error build upload request")
	}

	url := fmt.Sprintf("http://%s:%s/api/private/blobs", r.cfgBlob.Host, r.cfgBlob.Port)
	resp, err := r.httpClient.Post(url, writer.FormDataContentType(), &body)
	if err != nil {
		r.log.Error(ctx, "error upload image", err)
		return "", errors.UpstreamError("error upload image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		r.log.Error(ctx, "error upload image", resp.StatusCode)
		return "", errors.UpstreamError("error upload image")
	}

	var respData struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", errors.UpstreamError("error parse upload response")
	}
	return respData.URL, nil
}

// DeleteImage implements Repositories. Best effort; callers log and move on.
func (r *repositories) DeleteImage(ctx context.Context, imageURL string) error {
	payload, _ := json.Marshal(map[string]string{"url": imageURL})
	url := fmt.Sprintf("http://%s:%s/api/private/blobs/delete", r.cfgBlob.Host, r.cfgBlob.Port)
	resp, err := r.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return errors.UpstreamError("error delete image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return errors.UpstreamError("error delete image")
	}
	return nil
}

// SeedAvailableCapacity implements Repositories.
func (r *repositories) SeedAvailableCapacity(ctx context.Context, eventID string, available int) error {
	if err := r.redisClient.Set(ctx, availabilityKeyPrefix+eventID, available, 0).Err(); err != nil {
		r.log.Error(ctx, "error seed available capacity", err)
		return errors.InternalServerError("error seed available capacity")
	}
	return nil
}

// SetTaskScheduler implements Repositories.
func (r *repositories) SetTaskScheduler(ctx context.Context, processAt time.Time, payload []byte) (string, error) {
	task := asynq.NewTask(scheduler.TypeSetEventCompleted, payload)
	info, err := r.asynqClient.EnqueueContext(ctx, task, asynq.ProcessIn(helpers.DurationCalculation(processAt)))
	if err != nil {
		r.log.Error(ctx, "error set task scheduler", err)
		return "", errors.InternalServerError("error set task scheduler")
	}
	return info.ID, nil
}

// DeleteTaskScheduler implements Repositories.
func (r *repositories) DeleteTaskScheduler(ctx context.Context, taskID string) error {
	if err := r.asynqInspector.DeleteTask("default", taskID); err != nil {
		r.log.Error(ctx, "error delete task scheduler", err)
		return errors.InternalServerError("error delete task scheduler")
	}
	return nil
}
