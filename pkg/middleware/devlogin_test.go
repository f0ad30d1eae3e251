package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDevLogin(t *testing.T, resolve RoleResolver, mutate func(*http.Request)) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := DevLogin(resolve)(func(c echo.Context) error { return nil })
	require.NoError(t, h(c))
	return c
}

func TestDevLogin_Defaults(t *testing.T) {
	c := runDevLogin(t, nil, nil)
	assert.Equal(t, "U_DEV_DEFAULT", c.Get("uid"))
	assert.Equal(t, "teacher", c.Get("role"))
}

func TestDevLogin_RoleFromStoredProfile(t *testing.T) {
	resolve := func(uid string) (string, bool) {
		if uid == "U9" {
			return "psychopedagogue", true
		}
		return "", false
	}
	c := runDevLogin(t, resolve, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "PIAR_UID", Value: "U9"})
	})
	assert.Equal(t, "U9", c.Get("uid"))
	assert.Equal(t, "psychopedagogue", c.Get("role"))
}

func TestDevLogin_HeaderOverridesProfile(t *testing.T) {
	resolve := func(string) (string, bool) { return "psychopedagogue", true }
	c := runDevLogin(t, resolve, func(r *http.Request) {
		r.Header.Set("X-User-Role", "admin")
	})
	assert.Equal(t, "admin", c.Get("role"))
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole("admin", "coordinator")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for role, want := range map[string]int{
		"admin":   http.StatusOK,
		"teacher": http.StatusForbidden,
		"":        http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set("role", role)
		}
		require.NoError(t, h(c))
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}
