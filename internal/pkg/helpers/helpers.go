package helpers

import (
	"fmt"
	"time"

	"ticketing-service/internal/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type SuccessResp struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorRespBody struct {
	Message string `json:"message"`
}

func RespSuccess(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	log.Ctx(ctx.UserContext()).Info(message)
	return ctx.Status(fiber.StatusOK).JSON(SuccessResp{
		Message: message,
		Data:    data,
	})
}

func RespCreated(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	log.Ctx(ctx.UserContext()).Info(message)
	return ctx.Status(fiber.StatusCreated).JSON(SuccessResp{
		Message: message,
		Data:    data,
	})
}

func RespError(ctx *fiber.Ctx, log *otelzap.Logger, err error) error {
	code := errors.HttpCode(err)
	log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("request failed with status %d: %v", code, err))
	return ctx.Status(code).JSON(ErrorRespBody{Message: err.Error()})
}

// DurationCalculation returns the time left until target, floored at zero so
// asynq never receives a negative ProcessIn.
func DurationCalculation(target time.Time) time.Duration {
	d := time.Until(target)
	if d < 0 {
		return 0
	}
	return d
}

// SameCalendarDay compares two instants date-only in the given location.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
