package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindBusinessRule      ErrorKind = "business_rule"
	KindForbidden         ErrorKind = "forbidden"
)

// Error dikembalikan semua operasi service. Kind stabil untuk dicek mesin,
// Message untuk ditampilkan ke user.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func errTransition(format string, args ...any) *Error {
	return newError(KindInvalidTransition, format, args...)
}

func errValidation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func errConflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func errBusiness(format string, args ...any) *Error {
	return newError(KindBusinessRule, format, args...)
}

func errForbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

// KindOf mengembalikan "" untuk error yang bukan *Error (error infrastruktur).
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFoundOr mengubah gorm.ErrRecordNotFound menjadi KindNotFound.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errNotFound(format, args...)
	}
	return err
}

var validate = validator.New()

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errValidation("payload tidak valid: %v", err)
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return errValidation("payload tidak valid (%s)", strings.Join(parts, ", "))
}
