package graph

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

// Коды ошибок в extensions.code.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidCursor = "INVALID_CURSOR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL"
	CodeForbidden     = "FORBIDDEN"
)

const internalMessage = "internal server error"

// ErrorCode классифицирует ошибку резолвера.
func ErrorCode(err error) string {
	var gerr *gqlerror.Error
	switch {
	case errors.As(err, &gerr):
		if code, ok := gerr.Extensions["code"].(string); ok {
			return code
		}
		return CodeInternal
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidCursor):
		return CodeInvalidCursor
	case errors.Is(err, domain.ErrConflict):
		return CodeConflict
	case domain.IsValidation(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// presentError переводит ошибку в gqlerror. Текст внутренних ошибок клиенту не отдаётся.
func presentError(err error, field *ast.Field, path ast.Path) *gqlerror.Error {
	code := ErrorCode(err)
	message := err.Error()
	var client *gqlerror.Error
	if errors.As(err, &client) {
		message = client.Message
	}
	gerr := &gqlerror.Error{
		Err:        err,
		Message:    message,
		Path:       path,
		Extensions: map[string]any{"code": code},
	}
	if field != nil && field.Position != nil {
		gerr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}

	var ve *domain.ValidationError
	switch {
	case code == CodeInternal:
		gerr.Message = internalMessage
	case errors.As(err, &ve):
		fields := make([]map[string]string, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = map[string]string{"field": f.Field, "message": f.Message}
		}
		gerr.Extensions["fields"] = fields
	}
	return gerr
}
