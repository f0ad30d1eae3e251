package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleResolver looks up the stored role for a user id. It returns false when
// the user has no stored profile.
type RoleResolver func(userID string) (string, bool)

// DevLogin resolves a user id and role from cookies/headers, falling back to
// the user's stored profile and finally to a development teacher account.
// Real authentication lives outside this service; the role here only feeds
// UI-level gates.
func DevLogin(resolve RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := ""
			if ck, err := c.Cookie("PIAR_UID"); err == nil {
				uid = ck.Value
			}
			if uid == "" {
				if q := c.QueryParam("uid"); q != "" {
					c.SetCookie(&http.Cookie{Name: "PIAR_UID", Value: q, Path: "/"})
					uid = q
				} else {
					uid = "U_DEV_DEFAULT"
					c.SetCookie(&http.Cookie{Name: "PIAR_UID", Value: uid, Path: "/"})
				}
			}
			role := c.Request().Header.Get("X-User-Role")
			if role == "" {
				if ck, err := c.Cookie("PIAR_ROLE"); err == nil {
					role = ck.Value
				}
			}
			if role == "" && resolve != nil {
				if r, ok := resolve(uid); ok {
					role = r
				}
			}
			if role == "" {
				role = "teacher"
			}
			c.Set("uid", uid)
			c.Set("role", role)
			return next(c)
		}
	}
}
