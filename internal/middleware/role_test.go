package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertramos/eco-reporte/internal/model"
)

func doWithRole(t *testing.T, role interface{}, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestRequireRoleAllowed(t *testing.T) {
	rec := doWithRole(t, model.RoleAdmin, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAllowsAnyOfSeveral(t *testing.T) {
	rec := doWithRole(t, model.RoleUser, RequireRole(model.RoleAdmin, model.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenied(t *testing.T) {
	rec := doWithRole(t, model.RoleCollector, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"No tienes permisos para acceder a este recurso"}`, rec.Body.String())
}

func TestRequireRoleMissingClaim(t *testing.T) {
	rec := doWithRole(t, nil, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
