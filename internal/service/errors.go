package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownEmail       = errors.New("email not registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDeliveryFailed     = errors.New("message delivery failed")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError 描述单个字段的输入错误，errors.Is(err, ErrValidation) 成立
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func requiredField(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}
