package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
	"github.com/aylinvena/table-reservation/internal/repository"
)

// VenueHandler serves venue and table administration for owners plus
// the public browse endpoints.
type VenueHandler struct {
	Registry repository.RegistryStore
}

func NewVenueHandler(reg repository.RegistryStore) *VenueHandler {
	if reg == nil {
		panic("nil registry passed to NewVenueHandler")
	}
	return &VenueHandler{Registry: reg}
}

// ----- DTOs -----

type createVenueReq struct {
	Name        string `json:"name"`
	OpenTime    string `json:"open_time"`  // "HH:MM"
	CloseTime   string `json:"close_time"` // "HH:MM"
	SlotMinutes int    `json:"slot_minutes"`
}

type createTableReq struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

type setActiveReq struct {
	Active *bool `json:"active"`
}

// venueResp is the wire form of a venue; minutes go out as clock
// strings so clients never deal with minute offsets.
type venueResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	SlotMinutes int    `json:"slot_minutes"`
}

func toVenueResp(v *model.Venue) venueResp {
	return venueResp{
		ID:          v.ID,
		Name:        v.Name,
		OpenTime:    model.FormatClock(v.OpenMinute),
		CloseTime:   model.FormatClock(v.CloseMinute),
		SlotMinutes: v.SlotMinutes,
	}
}

type tableResp struct {
	ID       uint64 `json:"id"`
	VenueID  uint64 `json:"venue_id"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"is_active"`
}

func toTableResp(t *model.Table) tableResp {
	return tableResp{
		ID:       t.ID,
		VenueID:  t.VenueID,
		Label:    t.Label,
		Capacity: t.Capacity,
		IsActive: t.IsActive,
	}
}

func toTableResps(ts []*model.Table) []tableResp {
	out := make([]tableResp, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTableResp(t))
	}
	return out
}

// CreateVenue handles POST /v1/venues for authenticated owners.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createVenueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	open, err := model.ParseClock(req.OpenTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid open_time, want HH:MM"})
	}
	closeM, err := model.ParseClock(req.CloseTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid close_time, want HH:MM"})
	}
	if closeM <= open {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "close_time must be after open_time"})
	}
	if req.SlotMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_minutes must be positive"})
	}

	v := &model.Venue{
		OwnerID:     ownerID,
		Name:        name,
		OpenMinute:  open,
		CloseMinute: closeM,
		SlotMinutes: req.SlotMinutes,
	}
	if err := h.Registry.CreateVenue(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, toVenueResp(v))
}

// ListVenues handles GET /v1/venues (public).
func (h *VenueHandler) ListVenues(c echo.Context) error {
	venues, err := h.Registry.ListVenues(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list venues"})
	}
	out := make([]venueResp, 0, len(venues))
	for _, v := range venues {
		out = append(out, toVenueResp(v))
	}
	return c.JSON(http.StatusOK, out)
}

// GetVenue handles GET /v1/venues/:id (public).
func (h *VenueHandler) GetVenue(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	v, err := h.Registry.GetVenue(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toVenueResp(v))
}

// ListTables handles GET /v1/venues/:id/tables (public).  Only active
// tables are returned; min_capacity filters out tables too small for
// the party.
func (h *VenueHandler) ListTables(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	minCap := 0
	if s := c.QueryParam("min_capacity"); s != "" {
		minCap, err = strconv.Atoi(s)
		if err != nil || minCap < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
	}
	ctx := c.Request().Context()
	if _, err := h.Registry.GetVenue(ctx, venueID); err != nil {
		return bookingError(c, err)
	}
	tables, err := h.Registry.ListTables(ctx, venueID, minCap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list tables"})
	}
	return c.JSON(http.StatusOK, toTableResps(tables))
}

// CreateTable handles POST /v1/venues/:id/tables for the venue owner.
func (h *VenueHandler) CreateTable(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var req createTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}

	ctx := c.Request().Context()
	v, err := h.Registry.GetVenue(ctx, venueID)
	if err != nil {
		return bookingError(c, err)
	}
	// Foreign venues look like missing venues to other owners.
	if v.OwnerID != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}

	t := &model.Table{
		VenueID:  venueID,
		Label:    label,
		Capacity: req.Capacity,
		IsActive: true,
	}
	if err := h.Registry.CreateTable(ctx, t); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return bookingError(c, err)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	return c.JSON(http.StatusCreated, toTableResp(t))
}

// ListVenueTables handles GET /v1/venues/:id/all-tables for the venue
// owner: every table, active or not.
func (h *VenueHandler) ListVenueTables(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	ctx := c.Request().Context()
	v, err := h.Registry.GetVenue(ctx, venueID)
	if err != nil {
		return bookingError(c, err)
	}
	if v.OwnerID != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	tables, err := h.Registry.ListAllTables(ctx, venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list tables"})
	}
	return c.JSON(http.StatusOK, toTableResps(tables))
}

// SetTableActive handles PUT /v1/tables/:id/active for the venue
// owner.  Deactivating a table stops new bookings; reservations
// already on the ledger keep their dates.
func (h *VenueHandler) SetTableActive(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}

	ctx := c.Request().Context()
	t, err := h.Registry.GetTable(ctx, tableID)
	if err != nil {
		return bookingError(c, err)
	}
	v, err := h.Registry.GetVenue(ctx, t.VenueID)
	if err != nil {
		return bookingError(c, err)
	}
	if v.OwnerID != ownerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	if err := h.Registry.SetTableActive(ctx, tableID, *req.Active); err != nil {
		return bookingError(c, err)
	}
	t.IsActive = *req.Active
	return c.JSON(http.StatusOK, toTableResp(t))
}
