package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNoRoomAvailable        = errors.New("no rooms available for the selected date range and room type")
	ErrConflictingReservation = errors.New("conflicting reservation")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthenticated        = errors.New("authentication credentials were not provided")
	ErrForbidden              = errors.New("you do not have permission to perform this action")
)

// ValidationError is a client mistake; the request must be corrected before retrying.
type ValidationError struct {
	Code    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NotFoundError reports a missing room type, room, user or reservation.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func notFound(resource string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("failed to load %s %d: %w", resource, id, err)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// isDuplicateKeyError recognizes unique index violations from every supported driver.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
