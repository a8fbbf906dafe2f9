package handler

import (
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo (e.Validator).
// Field names in errors use the JSON tag so clients see the names they
// sent.
type Validator struct {
    validate *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" || name == "" {
            return f.Name
        }
        return name
    })
    return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
    return v.validate.Struct(i)
}
