package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aylinvena/table-reservation/internal/handler"
	"github.com/aylinvena/table-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can book
// tables, confirm or cancel their own reservations and list them.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: availability and slot browsing are registered on the public
	// router so that guests can look before registering.  Customer-specific
	// endpoints begin here.
	g.POST("/reservations", h.Create)
	g.PUT("/reservations/:id/status", h.UpdateStatus)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/reservations/:id", h.Get)
}
