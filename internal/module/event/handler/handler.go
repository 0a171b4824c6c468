package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"ticketing-service/internal/module/event/models/request"
	"ticketing-service/internal/module/event/usecases"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type EventHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
}

func (h *EventHandler) CreateEvent(ctx *fiber.Ctx) error {
	var req request.CreateEvent
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.CreateEvent(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create event: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "event created successfully")
}

func (h *EventHandler) CreateSport(ctx *fiber.Ctx) error {
	var req request.CreateSport
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	image, err := h.imageAttachment(ctx)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error read image upload: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error read image upload"))
	}

	resp, err := h.Usecase.CreateSport(ctx.UserContext(), &req, image)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create sport: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "sport created successfully")
}

func (h *EventHandler) ListEvents(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.ListEvents(ctx.UserContext(), ctx.Query("kind"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error list events: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "events retrieved successfully")
}

func (h *EventHandler) GetEvent(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.GetEvent(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error get event: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "event retrieved successfully")
}

func (h *EventHandler) ListSportsByCategory(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.ListSportsByCategory(ctx.UserContext(), ctx.Params("categoryName"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error list sports by category: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "sports retrieved successfully")
}

func (h *EventHandler) UpdateEvent(ctx *fiber.Ctx) error {
	var req request.UpdateEvent
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	image, err := h.imageAttachment(ctx)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error read image upload: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error read image upload"))
	}

	resp, err := h.Usecase.UpdateEvent(ctx.UserContext(), ctx.Params("id"), &req, image)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error update event: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "event updated successfully")
}

func (h *EventHandler) DeleteEvent(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.DeleteEvent(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error delete event: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "event deleted successfully")
}

// SetEventCompleted is the asynq task handler flipping an event to completed
// once its calendar day has passed.
func (h *EventHandler) SetEventCompleted(ctx context.Context, t *asynq.Task) error {
	var req request.EventCompletion
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error unmarshal payload: %v", err))
		return err
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error validate payload: %v", err))
		return err
	}

	if err := h.Usecase.MarkEventCompleted(ctx, &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error set event completed: %v", err))
		return err
	}

	return nil
}

func (h *EventHandler) imageAttachment(ctx *fiber.Ctx) (*request.ImageAttachment, error) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		// no multipart image attached
		return nil, nil
	}
	return readAttachment(fileHeader)
}

func readAttachment(fileHeader *multipart.FileHeader) (*request.ImageAttachment, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &request.ImageAttachment{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}
