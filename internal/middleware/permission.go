package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequirePermission aborts the request unless the token verified by
// JWTAuth grants permission.  A token without a permissions claim is a
// bad request (400); a missing permission is forbidden (403).
func RequirePermission(permission string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cl := claimsFrom(c)
            if cl == nil {
                return echo.NewHTTPError(http.StatusUnauthorized, "authorization header is expected")
            }
            if cl.Permissions == nil {
                return echo.NewHTTPError(http.StatusBadRequest, "permissions not included in token")
            }
            if !cl.Has(permission) {
                return echo.NewHTTPError(http.StatusForbidden, "permission not found")
            }
            return next(c)
        }
    }
}
