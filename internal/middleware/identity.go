package middleware

import "github.com/labstack/echo/v4"

// subject identifies the caller in rate limit keys.  Global middleware
// runs before the route's JWTAuth, so a bearer token is verified here
// with secret when no claims are stored yet.  Missing or invalid
// tokens count as "anon".
func subject(c echo.Context, secret string) string {
    cl := claimsFrom(c)
    if cl == nil && secret != "" {
        cl, _ = bearerClaims(c, secret)
    }
    if cl != nil && cl.Subject != "" {
        return cl.Subject
    }
    return "anon"
}
