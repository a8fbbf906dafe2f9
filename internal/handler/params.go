package handler

import (
    "fmt"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stagedoor/internal/apperr"
)

// pathID parses a positive int64 path parameter.
func pathID(c echo.Context, name string) (int64, error) {
    id, err := strconv.ParseInt(c.Param(name), 10, 64)
    if err != nil || id <= 0 {
        return 0, fmt.Errorf("invalid %s %q: %w", name, c.Param(name), apperr.ErrInvalidArgument)
    }
    return id, nil
}

// queryTime parses an optional RFC 3339 query parameter.  An absent
// parameter yields the zero time.
func queryTime(c echo.Context, name string) (time.Time, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return time.Time{}, nil
    }
    t, err := time.Parse(time.RFC3339, raw)
    if err != nil {
        return time.Time{}, fmt.Errorf("invalid %s %q, want RFC 3339: %w", name, raw, apperr.ErrInvalidArgument)
    }
    return t.UTC(), nil
}

// queryPage parses ?page=N, defaulting to 1.
func queryPage(c echo.Context) (int, error) {
    raw := c.QueryParam("page")
    if raw == "" {
        return 1, nil
    }
    p, err := strconv.Atoi(raw)
    if err != nil || p < 1 {
        return 0, fmt.Errorf("invalid page %q: %w", raw, apperr.ErrInvalidArgument)
    }
    return p, nil
}

// bindValid binds the request body into req and runs the validator.
func bindValid(c echo.Context, req interface{}) error {
    if err := c.Bind(req); err != nil {
        return err
    }
    return c.Validate(req)
}
