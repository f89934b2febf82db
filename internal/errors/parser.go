package errors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a client-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates persistence and collaborator failures into a stable
// code plus a message that does not leak internals. context names the
// resource being operated on ("user", "store", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An unexpected error occurred"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Unique constraint violation (Postgres 23505, SQLite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: fmt.Sprintf("A %s with these details already exists", contextOrRecord(context)),
		}
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A referenced record does not exist",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStr, "violates not-null constraint") ||
		strings.Contains(errStr, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Network / collaborator errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "An unexpected error occurred"}
}

func notFoundMessage(context string) string {
	switch context {
	case "":
		return "Record not found"
	default:
		// "user" -> "User not found"
		return strings.ToUpper(context[:1]) + context[1:] + " not found"
	}
}

func contextOrRecord(context string) string {
	if context == "" {
		return "record"
	}
	return context
}
