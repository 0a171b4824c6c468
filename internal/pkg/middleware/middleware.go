package middleware

import (
	"context"
	"fmt"
	"strings"

	"ticketing-service/internal/module/ticket/models/response"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// TokenValidator is the slice of the ticket repositories the middleware
// needs; the auth collaborator lives behind it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
}

type Middleware struct {
	Log  *otelzap.Logger
	Repo TokenValidator
}

func (m *Middleware) ValidateToken(ctx *fiber.Ctx) error {
	auth := ctx.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		m.Log.Ctx(ctx.UserContext()).Error("error get token from header")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("no token provided"))
	}

	token := strings.TrimPrefix(auth, "Bearer ")

	resp, err := m.Repo.ValidateToken(ctx.UserContext(), token)
	if err != nil {
		m.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate token: %v", err))
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("invalid token"))
	}

	if !resp.IsValid {
		m.Log.Ctx(ctx.UserContext()).Error("error validate token")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("invalid token"))
	}

	ctx.Locals("user_id", resp.UserID)
	ctx.Locals("user_role", resp.Role)
	ctx.Locals("email_user", resp.Email)

	return ctx.Next()
}

// RequireAdmin must run after ValidateToken.
func (m *Middleware) RequireAdmin(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("user_role").(string)
	if role != "admin" {
		m.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("access denied for role %q", role))
		return helpers.RespError(ctx, m.Log, errors.ForbiddenError("access denied, admin role required"))
	}
	return ctx.Next()
}
