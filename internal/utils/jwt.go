package utils // package utils provides helpers for the bearer tokens guarding the coffee shop API

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// Token verification errors.  Middleware maps each one to its own
// response message.
var (
    ErrTokenExpired   = errors.New("token expired")
    ErrTokenMalformed = errors.New("unable to parse token")
)

// Claims is the payload of a coffee shop access token.  Permissions
// lists the actions the bearer may perform, e.g. "post:drinks".  A
// token without the claim at all is rejected, which is different from
// an empty list.
type Claims struct {
    Permissions []string `json:"permissions"`
    jwt.RegisteredClaims
}

// Has reports whether the claims grant permission.
func (c *Claims) Has(permission string) bool {
    for _, p := range c.Permissions {
        if p == permission {
            return true
        }
    }
    return false
}

// AccessToken represents a signed JWT along with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for subject carrying the
// given permissions.  Issuing tokens belongs to the identity provider;
// this is used by tests and local tooling.
func NewAccessToken(secret, subject string, permissions []string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := Claims{
        Permissions: permissions,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   subject,
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its claims.
// Only HS256 is accepted.
func ParseAccessToken(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    switch {
    case errors.Is(err, jwt.ErrTokenExpired):
        return nil, ErrTokenExpired
    case err != nil || !tok.Valid:
        return nil, ErrTokenMalformed
    }
    return claims, nil
}
