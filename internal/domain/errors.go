package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound - запись не найдена. Для одиночных выборок превращается в null.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCursor - курсор не декодируется или не указывает на запись текущей выборки.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrConflict - операция нарушила бы ссылочную целостность.
	ErrConflict = errors.New("conflict")
)

// NotFound оборачивает ErrNotFound с указанием сущности.
func NotFound(entity EntityType, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// FieldError - ошибка валидации одного поля.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError - некорректный ввод, отклонённый до обращения к хранилищу.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError создаёт ошибку с одним полем.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation сообщает, является ли err ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
