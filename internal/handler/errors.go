package handler

import (
    "errors"
    "net/http"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/stagedoor/internal/apperr"
)

// errorBody is the JSON envelope of every failed request.
type errorBody struct {
    Success bool              `json:"success"`
    Error   int               `json:"error"`
    Message string            `json:"message"`
    Fields  map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler renders every error returned by handlers and
// middleware as an errorBody.  Error kinds from apperr pick the status;
// anything unclassified is a 500 and gets logged with its cause.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        body := errorBody{}

        var (
            he   *echo.HTTPError
            verr validator.ValidationErrors
        )
        switch {
        case errors.As(err, &verr):
            body.Error = http.StatusBadRequest
            body.Message = "request validation failed"
            body.Fields = make(map[string]string, len(verr))
            for _, fe := range verr {
                body.Fields[fe.Field()] = fieldMessage(fe)
            }
        case errors.As(err, &he):
            body.Error = he.Code
            if m, ok := he.Message.(string); ok {
                body.Message = m
            } else {
                body.Message = http.StatusText(he.Code)
            }
        case errors.Is(err, apperr.ErrNotFound):
            body.Error, body.Message = http.StatusNotFound, err.Error()
        case errors.Is(err, apperr.ErrInvalidArgument):
            body.Error, body.Message = http.StatusBadRequest, err.Error()
        case errors.Is(err, apperr.ErrConflict):
            body.Error, body.Message = http.StatusConflict, err.Error()
        default:
            body.Error = http.StatusInternalServerError
            body.Message = "internal server error"
            log.Error("unhandled error",
                zap.Error(err),
                zap.String("method", c.Request().Method),
                zap.String("route", c.Path()),
                zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
            )
        }

        var werr error
        if c.Request().Method == http.MethodHead {
            werr = c.NoContent(body.Error)
        } else {
            werr = c.JSON(body.Error, body)
        }
        if werr != nil {
            log.Warn("write error response failed", zap.Error(werr))
        }
    }
}

func fieldMessage(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "min", "gte":
        return "must be at least " + fe.Param()
    case "gt":
        return "must be greater than " + fe.Param()
    case "url":
        return "must be a valid URL"
    case "len":
        return "must have length " + fe.Param()
    }
    return "failed " + fe.Tag() + " check"
}
