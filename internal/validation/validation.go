// Package validation проверяет входные структуры на границе API
// и переводит ошибки validator в domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// В сообщениях используем имена полей из GraphQL-схемы.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := validate.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseTimestamp(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(fmt.Sprintf("validation: register timestamp: %v", err))
		}
	})
	return validate
}

// Struct валидирует структуру по тегам validate.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath отрезает имя корневой структуры: "PostsArgs.filter.status" -> "filter.status".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "hexcolor":
		return "must be a hex color"
	case "timezone":
		return "must be an IANA time zone"
	case "timestamp":
		return "must be an RFC 3339 timestamp or YYYY-MM-DD date"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
