package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asOwner(c echo.Context, id uint64) {
	c.Set("user_id", float64(id))
	c.Set("role", "OWNER")
}

func TestCreateVenue(t *testing.T) {
	f := newFixture(t)
	vh := NewVenueHandler(f.store)

	c, rec := f.request(http.MethodPost, "/v1/venues",
		`{"name":"Corner Cafe","open_time":"10:00","close_time":"20:00","slot_minutes":15}`)
	asOwner(c, 3)
	require.NoError(t, vh.CreateVenue(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp venueResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Corner Cafe", resp.Name)
	assert.Equal(t, "10:00", resp.OpenTime)
	assert.Equal(t, "20:00", resp.CloseTime)
	assert.Equal(t, 15, resp.SlotMinutes)
	assert.NotZero(t, resp.ID)
}

func TestCreateVenueValidation(t *testing.T) {
	f := newFixture(t)
	vh := NewVenueHandler(f.store)

	cases := []struct {
		name string
		body string
	}{
		{name: "empty name", body: `{"name":" ","open_time":"10:00","close_time":"20:00","slot_minutes":30}`},
		{name: "bad open time", body: `{"name":"X","open_time":"10am","close_time":"20:00","slot_minutes":30}`},
		{name: "close before open", body: `{"name":"X","open_time":"20:00","close_time":"10:00","slot_minutes":30}`},
		{name: "zero slot length", body: `{"name":"X","open_time":"10:00","close_time":"20:00","slot_minutes":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := f.request(http.MethodPost, "/v1/venues", tc.body)
			asOwner(c, 3)
			require.NoError(t, vh.CreateVenue(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateTableOwnership(t *testing.T) {
	f := newFixture(t) // venue owned by user 1
	vh := NewVenueHandler(f.store)
	venueID := fmt.Sprint(f.venueID)

	post := func(userID uint64, body string) *httptest.ResponseRecorder {
		c, rec := f.request(http.MethodPost, "/v1/venues/"+venueID+"/tables", body)
		asOwner(c, userID)
		c.SetParamNames("id")
		c.SetParamValues(venueID)
		require.NoError(t, vh.CreateTable(c))
		return rec
	}

	rec := post(1, `{"label":"T9","capacity":6}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created tableResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsActive, "new tables start active")
	assert.Equal(t, 6, created.Capacity)

	// Another owner cannot see, let alone extend, this venue.
	rec = post(2, `{"label":"T9","capacity":6}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(1, `{"label":"","capacity":6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = post(1, `{"label":"T10","capacity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTableActive(t *testing.T) {
	f := newFixture(t)
	vh := NewVenueHandler(f.store)
	tableID := fmt.Sprint(f.tableID)

	put := func(userID uint64, body string) *httptest.ResponseRecorder {
		c, rec := f.request(http.MethodPut, "/v1/tables/"+tableID+"/active", body)
		asOwner(c, userID)
		c.SetParamNames("id")
		c.SetParamValues(tableID)
		require.NoError(t, vh.SetTableActive(c))
		return rec
	}

	rec := put(1, `{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp tableResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsActive)

	// Deactivated tables vanish from the public listing but stay in
	// the owner's full listing.
	venueID := fmt.Sprint(f.venueID)
	c, rec2 := f.request(http.MethodGet, "/v1/venues/"+venueID+"/tables", "")
	c.SetParamNames("id")
	c.SetParamValues(venueID)
	require.NoError(t, vh.ListTables(c))
	var pub []tableResp
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &pub))
	assert.Empty(t, pub)

	c, rec2 = f.request(http.MethodGet, "/v1/venues/"+venueID+"/all-tables", "")
	asOwner(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(venueID)
	require.NoError(t, vh.ListVenueTables(c))
	var all []tableResp
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	// Foreign owner and missing body.
	rec = put(2, `{"active":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = put(1, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTablesMinCapacity(t *testing.T) {
	f := newFixture(t) // one table, capacity 4
	vh := NewVenueHandler(f.store)
	venueID := fmt.Sprint(f.venueID)

	list := func(query string) []tableResp {
		c, rec := f.request(http.MethodGet, "/v1/venues/"+venueID+"/tables"+query, "")
		c.SetParamNames("id")
		c.SetParamValues(venueID)
		require.NoError(t, vh.ListTables(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var out []tableResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.Len(t, list(""), 1)
	assert.Len(t, list("?min_capacity=4"), 1)
	assert.Empty(t, list("?min_capacity=5"))
}

func TestGetVenuePublic(t *testing.T) {
	f := newFixture(t)
	vh := NewVenueHandler(f.store)

	c, rec := f.request(http.MethodGet, "/v1/venues/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, vh.GetVenue(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	venueID := fmt.Sprint(f.venueID)
	c, rec = f.request(http.MethodGet, "/v1/venues/"+venueID, "")
	c.SetParamNames("id")
	c.SetParamValues(venueID)
	require.NoError(t, vh.GetVenue(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp venueResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Harbor Bistro", resp.Name)
}
