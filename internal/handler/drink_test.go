package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stagedoor/internal/utils"
)

func bearer(t *testing.T, perms ...string) []string {
	t.Helper()
	tok, err := utils.NewAccessToken(jwtSecret, "barista|1", perms, time.Hour)
	require.NoError(t, err)
	return []string{echo.HeaderAuthorization, "Bearer " + tok.Token}
}

var latte = map[string]any{
	"title": "Latte",
	"recipe": []map[string]any{
		{"name": "espresso", "color": "brown", "parts": 1},
		{"name": "milk", "color": "white", "parts": 3},
	},
}

func TestDrinks_Permissions(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/v1/drinks", latte)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/drinks", latte, echo.HeaderAuthorization, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/drinks", latte, echo.HeaderAuthorization, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/drinks", latte, bearer(t, "get:drinks-detail")...)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = s.do(http.MethodGet, "/v1/drinks-detail", nil, bearer(t, "post:drinks")...)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No permissions claim at all.
	rec = s.do(http.MethodGet, "/v1/drinks-detail", nil, bearer(t)...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrinks_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	manager := bearer(t, "get:drinks-detail", "post:drinks", "patch:drinks", "delete:drinks")

	rec := s.do(http.MethodPost, "/v1/drinks", latte, manager...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode(t, rec)["drinks"].([]any)[0].(map[string]any)
	id := int64(created["id"].(float64))

	rec = s.do(http.MethodPost, "/v1/drinks", latte, manager...)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/v1/drinks", map[string]any{"title": "Water", "recipe": []any{}}, manager...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The public menu hides ingredient names.
	rec = s.do(http.MethodGet, "/v1/drinks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ing := decode(t, rec)["drinks"].([]any)[0].(map[string]any)["recipe"].([]any)[0].(map[string]any)
	assert.NotContains(t, ing, "name")
	assert.Equal(t, "brown", ing["color"])

	rec = s.do(http.MethodGet, "/v1/drinks-detail", nil, manager...)
	require.Equal(t, http.StatusOK, rec.Code)
	ing = decode(t, rec)["drinks"].([]any)[0].(map[string]any)["recipe"].([]any)[0].(map[string]any)
	assert.Equal(t, "espresso", ing["name"])

	rec = s.do(http.MethodPatch, "/v1/drinks/1", map[string]any{"title": "Flat White"}, manager...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode(t, rec)["drinks"].([]any)[0].(map[string]any)
	assert.Equal(t, "Flat White", patched["title"])
	assert.Len(t, patched["recipe"], 2)

	rec = s.do(http.MethodPatch, "/v1/drinks/9", map[string]any{"title": "Mocha"}, manager...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/v1/drinks/1", nil, manager...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, id, decode(t, rec)["delete"])

	rec = s.do(http.MethodDelete, "/v1/drinks/1", nil, manager...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.db.Close())
	rec = s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
