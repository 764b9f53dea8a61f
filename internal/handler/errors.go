package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aylinvena/table-reservation/internal/booking"
)

// bookingError translates domain sentinels into HTTP responses.  Every
// handler funnels engine and store errors through here so the mapping
// stays in one place: bad input is 400, impossible requests (capacity,
// hours) are 422, lost races and state conflicts are 409, unknown ids
// are 404 and anything else is a 500 with a generic message.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCapacity), errors.Is(err, booking.ErrOutOfHours):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrConflict), errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
