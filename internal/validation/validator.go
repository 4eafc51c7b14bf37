// Package validation provides request schemas and translates rule failures into field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// filled: when present, the value must not be blank.
		_ = validate.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		// maxbytes: bcrypt rejects passwords longer than 72 bytes.
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})
	return validate
}

// attribute turns a json field name into the human form used in messages.
func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	attr := attribute(fe.Field())
	switch fe.Tag() {
	case "required", "filled":
		return fmt.Sprintf("The %s field is required.", attr)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", attr, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("The %s field must not be greater than %s bytes.", attr, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}

// Struct validates v and returns a field -> messages map, or nil when v is valid.
func Struct(v any) map[string][]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"_": {err.Error()}}
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return fields
}
