package middleware // reusable HTTP middleware for the echo server

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stagedoor/internal/utils"
)

// ContextClaims is the echo context key under which JWTAuth stores the
// verified *utils.Claims.
const ContextClaims = "claims"

// JWTAuth returns an Echo middleware that requires a valid HS256 Bearer
// token signed with secret.  Failures are returned as *echo.HTTPError so
// the shared error handler renders them.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, err := bearerClaims(c, secret)
            if err != nil {
                return err
            }
            c.Set(ContextClaims, claims)
            return next(c)
        }
    }
}

// bearerClaims verifies the Authorization header of c.  Errors are
// *echo.HTTPError values ready to return from a handler.
func bearerClaims(c echo.Context, secret string) (*utils.Claims, error) {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if auth == "" {
        return nil, echo.NewHTTPError(http.StatusUnauthorized, "authorization header is expected")
    }
    parts := strings.Fields(auth)
    if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
        return nil, echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
    }
    claims, err := utils.ParseAccessToken(secret, parts[1])
    if err != nil {
        if errors.Is(err, utils.ErrTokenExpired) {
            return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired")
        }
        return nil, echo.NewHTTPError(http.StatusUnauthorized, "unable to parse authentication token")
    }
    return claims, nil
}

// claimsFrom returns the claims stored by JWTAuth, or nil.
func claimsFrom(c echo.Context) *utils.Claims {
    cl, _ := c.Get(ContextClaims).(*utils.Claims)
    return cl
}
