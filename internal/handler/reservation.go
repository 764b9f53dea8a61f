package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
	"github.com/aylinvena/table-reservation/internal/queue"
	"github.com/aylinvena/table-reservation/internal/repository"
	queue_publisher "github.com/aylinvena/table-reservation/internal/service"
)

// defaultDurationSlots is the booking length assumed when the client
// omits an end time.
const defaultDurationSlots = 2

// ReservationHandler serves booking creation, lifecycle transitions
// and the availability views.  All writes go through the engine; reads
// use the resolver and the ledger directly.
type ReservationHandler struct {
	Engine       *booking.Engine
	Registry     repository.RegistryStore
	Ledger       repository.LedgerReader
	Reservations booking.ReservationStore

	// PublishConfirmed is called after a reservation reaches CONFIRMED.
	// Nil disables publishing (tests, memory-only deployments).
	PublishConfirmed func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

func NewReservationHandler(engine *booking.Engine, reg repository.RegistryStore, ledger repository.LedgerReader, reservations booking.ReservationStore) *ReservationHandler {
	if engine == nil || reg == nil || ledger == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Engine:           engine,
		Registry:         reg,
		Ledger:           ledger,
		Reservations:     reservations,
		PublishConfirmed: queue_publisher.PublishReservationConfirmed,
	}
}

// ----- DTOs -----

type createReservationReq struct {
	TableID        uint64 `json:"table_id"`
	Date           string `json:"date"`       // YYYY-MM-DD
	StartTime      string `json:"start_time"` // HH:MM
	EndTime        string `json:"end_time"`   // HH:MM, optional
	PartySize      int    `json:"party_size"`
	SpecialRequest string `json:"special_request"`
}

type statusReq struct {
	Status string `json:"status"` // CONFIRMED | CANCELLED
}

type reservationResp struct {
	ID             uint64    `json:"id"`
	TableID        uint64    `json:"table_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	PartySize      int       `json:"party_size"`
	Status         string    `json:"status"`
	SpecialRequest string    `json:"special_request,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:             r.ID,
		TableID:        r.TableID,
		Date:           r.Date,
		StartTime:      model.FormatClock(r.StartMinute),
		EndTime:        model.FormatClock(r.EndMinute),
		PartySize:      r.PartySize,
		Status:         string(r.Status),
		SpecialRequest: r.SpecialRequest,
		CreatedAt:      r.CreatedAt,
	}
}

// Create handles POST /v1/reservations for authenticated customers.
// When end_time is omitted the booking runs for two slots from
// start_time.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time, want HH:MM"})
	}

	ctx := c.Request().Context()

	end := 0
	if strings.TrimSpace(req.EndTime) != "" {
		end, err = model.ParseClock(req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time, want HH:MM"})
		}
	} else {
		// Default duration needs the venue's slot length.
		table, err := h.Registry.GetTable(ctx, req.TableID)
		if err != nil {
			return bookingError(c, err)
		}
		venue, err := h.Registry.GetVenue(ctx, table.VenueID)
		if err != nil {
			return bookingError(c, err)
		}
		end = start + defaultDurationSlots*venue.SlotMinutes
	}

	res, err := h.Engine.CreateBooking(ctx, booking.CreateRequest{
		UserID:         userID,
		TableID:        req.TableID,
		Date:           date,
		StartMinute:    start,
		EndMinute:      end,
		PartySize:      req.PartySize,
		SpecialRequest: strings.TrimSpace(req.SpecialRequest),
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// UpdateStatus handles PUT /v1/reservations/:id/status.  Customers may
// only move their own reservations; a foreign reservation id is
// indistinguishable from a missing one.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	next, ok := model.ParseReservationStatus(req.Status)
	if !ok || next == model.StatusPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
	}

	ctx := c.Request().Context()
	current, err := h.Ledger.GetReservation(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	if current.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}

	updated, err := h.Engine.Transition(ctx, id, next)
	if err != nil {
		return bookingError(c, err)
	}
	if next == model.StatusConfirmed {
		h.publishConfirmed(updated)
	}
	return c.JSON(http.StatusOK, toReservationResp(updated))
}

// publishConfirmed enriches and emits the confirmation event in the
// background so broker hiccups never fail the request.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
	if h.PublishConfirmed == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.ReservationConfirmedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			TableID:       res.TableID,
			Date:          res.Date,
			StartTime:     model.FormatClock(res.StartMinute),
			EndTime:       model.FormatClock(res.EndMinute),
			PartySize:     res.PartySize,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if table, err := h.Registry.GetTable(ctx, res.TableID); err == nil {
			ev.TableLabel = table.Label
			ev.VenueID = table.VenueID
			if venue, err := h.Registry.GetVenue(ctx, table.VenueID); err == nil {
				ev.VenueName = venue.Name
			}
		}
		_ = h.PublishConfirmed(ctx, ev)
	}()
}

// MyReservations handles GET /v1/my-reservations, newest first.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Ledger.ReservationsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list reservations"})
	}
	out := make([]reservationResp, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/reservations/:id for the reservation's owner.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Ledger.GetReservation(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if res.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Availability handles GET /v1/availability (public).  Query params:
// venue_id, date, party_size, start_time and an optional end_time that
// defaults to two slots after start_time.  Tables come back smallest
// adequate first.
func (h *ReservationHandler) Availability(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.QueryParam("venue_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
	}
	date, err := model.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	partySize, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party_size"})
	}
	start, err := model.ParseClock(c.QueryParam("start_time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time, want HH:MM"})
	}

	ctx := c.Request().Context()
	venue, err := h.Registry.GetVenue(ctx, venueID)
	if err != nil {
		return bookingError(c, err)
	}

	end := start + defaultDurationSlots*venue.SlotMinutes
	if s := c.QueryParam("end_time"); s != "" {
		end, err = model.ParseClock(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time, want HH:MM"})
		}
	}

	tables, err := h.Engine.Resolver().FindAvailableTables(ctx, venueID, date, start, end, partySize)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue_id":   venueID,
		"date":       date,
		"start_time": model.FormatClock(start),
		"end_time":   model.FormatClock(end),
		"party_size": partySize,
		"tables":     toTableResps(tables),
	})
}

// Slots handles GET /v1/venues/:id/slots (public).  Without table_id
// it returns the venue's slot grid for the day; with table_id it
// returns the free windows of the requested duration on that table.
func (h *ReservationHandler) Slots(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	ctx := c.Request().Context()
	venue, err := h.Registry.GetVenue(ctx, venueID)
	if err != nil {
		return bookingError(c, err)
	}

	tableParam := c.QueryParam("table_id")
	if tableParam == "" {
		slots := booking.SlotsForDay(venue)
		if slots == nil {
			slots = []booking.Slot{}
		}
		return c.JSON(http.StatusOK, echo.Map{"venue_id": venueID, "slots": slots})
	}

	tableID, err := strconv.ParseUint(tableParam, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
	}
	date, err := model.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	duration := defaultDurationSlots * venue.SlotMinutes
	if s := c.QueryParam("duration"); s != "" {
		duration, err = strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
		}
	}

	windows, err := h.Engine.Resolver().AvailableSlotsForTable(ctx, tableID, venueID, date, duration)
	if err != nil {
		return bookingError(c, err)
	}
	if windows == nil {
		windows = []booking.Slot{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue_id": venueID,
		"table_id": tableID,
		"date":     date,
		"windows":  windows,
	})
}

// TableDay handles GET /v1/tables/:id/reservations/:date for the venue
// owner: the table's full ledger for one day, cancelled rows included.
func (h *ReservationHandler) TableDay(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	table, err := h.Registry.GetTable(ctx, tableID)
	if err != nil {
		return bookingError(c, err)
	}
	venue, err := h.Registry.GetVenue(ctx, table.VenueID)
	if err != nil {
		return bookingError(c, err)
	}
	if venue.OwnerID != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}

	items, err := h.Reservations.ReservationsForTable(ctx, tableID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list reservations"})
	}
	out := make([]reservationResp, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"table_id": tableID,
		"date":     date,
		"items":    out,
	})
}
