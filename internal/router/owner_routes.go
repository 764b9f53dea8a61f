package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/aylinvena/table-reservation/internal/handler"    // owner handlers
	"github.com/aylinvena/table-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, v *handler.VenueHandler, r *handler.ReservationHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Venues ----
	g.POST("/venues", v.CreateVenue)
	// NOTE: Listing venues is handled by the public browse API.

	// ---- Tables ----
	g.POST("/venues/:id/tables", v.CreateTable)
	// Every table of the venue, inactive ones included.
	g.GET("/venues/:id/all-tables", v.ListVenueTables)
	g.PUT("/tables/:id/active", v.SetTableActive)

	// ---- Reservations ----
	// A table's full ledger for one day, cancelled rows included.
	g.GET("/tables/:id/reservations/:date", r.TableDay)
}
