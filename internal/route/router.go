package router

import (
	categoryhandler "ticketing-service/internal/module/category/handler"
	eventhandler "ticketing-service/internal/module/event/handler"
	tickethandler "ticketing-service/internal/module/ticket/handler"
	"ticketing-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func Initialize(app *fiber.App, handlerEvent *eventhandler.EventHandler, handlerCategory *categoryhandler.CategoryHandler, handlerTicket *tickethandler.TicketHandler, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	Api := app.Group("/api")

	// public routes
	v1 := Api.Group("/v1")
	v1.Get("/events", handlerEvent.ListEvents)
	v1.Get("/events/:id", handlerEvent.GetEvent)
	v1.Get("/categories", handlerCategory.ListCategories)
	v1.Get("/categories/type/:type", handlerCategory.ListCategoriesByType)
	v1.Get("/sports/category/:categoryName", handlerEvent.ListSportsByCategory)
	v1.Get("/tickets/:ticketNumber/participant", handlerTicket.GetParticipantByTicket)

	// payment checkout
	v1.Post("/checkout/session", m.ValidateToken, handlerTicket.CreateCheckoutSession)

	// operator routes: registration desk and gate scanning
	v1.Post("/events/:eventId/register", m.ValidateToken, m.RequireAdmin, handlerTicket.RegisterWithPayment)
	v1.Post("/tickets/scan", m.ValidateToken, m.RequireAdmin, handlerTicket.ScanTicket)

	// admin routes
	admin := v1.Group("/admin", m.ValidateToken, m.RequireAdmin)
	admin.Post("/events", handlerEvent.CreateEvent)
	admin.Post("/sports", handlerEvent.CreateSport)
	admin.Patch("/events/:id", handlerEvent.UpdateEvent)
	admin.Delete("/events/:id", handlerEvent.DeleteEvent)
	admin.Post("/categories", handlerCategory.AddCategory)
	admin.Get("/participants", handlerTicket.ListParticipants)
	admin.Get("/payments", handlerTicket.ListPayments)
	admin.Get("/payments/event/:eventId", handlerTicket.ListPaymentsByEvent)

	return app

}
