package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aylinvena/table-reservation/internal/config"
	"github.com/aylinvena/table-reservation/internal/repository"
)

func newAuthFixture(t *testing.T) (*echo.Echo, *AuthHandler) {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the test fast
	}
	store := repository.NewMemoryStore()
	return echo.New(), NewAuthHandler(cfg, store, store)
}

func authCall(e *echo.Echo, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		panic(err)
	}
	return rec
}

func TestRegister(t *testing.T) {
	e, h := newAuthFixture(t)

	rec := authCall(e, h.Register, `{"email":"Ada@Example.com","password":"hunter2","role":"owner"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "OWNER", resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NotEmpty(t, resp.Refresh.Token)

	// Unknown roles default to CUSTOMER.
	rec = authCall(e, h.Register, `{"email":"bob@example.com","password":"pw","role":"wizard"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CUSTOMER", resp.User.Role)

	// Duplicate email conflicts.
	rec = authCall(e, h.Register, `{"email":"ada@example.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Missing fields are rejected.
	rec = authCall(e, h.Register, `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	e, h := newAuthFixture(t)
	rec := authCall(e, h.Register, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = authCall(e, h.Login, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Access.Token)

	rec = authCall(e, h.Login, `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = authCall(e, h.Login, `{"email":"nobody@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotation(t *testing.T) {
	e, h := newAuthFixture(t)
	rec := authCall(e, h.Register, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	body := fmt.Sprintf(`{"refresh_token":%q}`, registered.Refresh.Token)
	rec = authCall(e, h.Refresh, body)
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, registered.Refresh.Token, rotated.Refresh.Token)

	// The old token was revoked by the rotation.
	rec = authCall(e, h.Refresh, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The new one still works, without rotation this time.
	rec = authCall(e, h.RefreshAccess, fmt.Sprintf(`{"refresh_token":%q}`, rotated.Refresh.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = authCall(e, h.Refresh, `{"refresh_token":"bogus"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = authCall(e, h.Refresh, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutSingleSession(t *testing.T) {
	e, h := newAuthFixture(t)
	rec := authCall(e, h.Register, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	body := fmt.Sprintf(`{"refresh_token":%q}`, registered.Refresh.Token)
	rec = authCall(e, h.Logout, body)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The session is gone.
	rec = authCall(e, h.Refresh, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out with neither bearer nor token is an error.
	rec = authCall(e, h.Logout, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutAllSessions(t *testing.T) {
	e, h := newAuthFixture(t)
	rec := authCall(e, h.Register, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	// Second session via login.
	rec = authCall(e, h.Login, `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var second authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	// Bearer-only logout revokes every session.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+registered.Access.Token)
	recAll := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, recAll)))
	assert.Equal(t, http.StatusNoContent, recAll.Code)

	for _, tok := range []string{registered.Refresh.Token, second.Refresh.Token} {
		rec = authCall(e, h.Refresh, fmt.Sprintf(`{"refresh_token":%q}`, tok))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
