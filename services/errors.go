package services

import (
	"fmt"
	"strings"

	"serviceconnect-backend/models"
)

// ValidationError lists the payload fields that were missing or malformed.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "missing required fields"
	}
	if len(e.Fields) == 0 {
		return "validation: " + msg
	}
	return fmt.Sprintf("validation: %s: %s", msg, strings.Join(e.Fields, ", "))
}

// HasField reports whether name is among the offending fields.
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func newValidationError(msg string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: msg}
}

// NotFoundError is returned when a lookup by id fails.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func notFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// AuthError is returned for missing credentials or a rejected login.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Reason
}

// TransitionError is returned when a booking cannot move to the requested status.
type TransitionError struct {
	BookingID int64
	From      models.BookingStatus
	To        models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %d cannot go from %s to %s", e.BookingID, e.From, e.To)
}
