package utils

import (
	"net/http"
	"strings"
)

// Error codes carried in the response envelope. Roster rejection codes match
// the reasons reported by the roster service.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeFeedUnavailable = "FEED_UNAVAILABLE"

	ErrCodeSeatFull          = "SEAT_FULL"
	ErrCodeAlreadyOnTeam     = "ALREADY_ON_TEAM"
	ErrCodeSalaryCapExceeded = "SALARY_CAP_EXCEEDED"
	ErrCodeNotOnTeam         = "NOT_ON_TEAM"
)

var codeStatus = map[string]int{
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeFeedUnavailable:   http.StatusBadGateway,
	ErrCodeSeatFull:          http.StatusConflict,
	ErrCodeAlreadyOnTeam:     http.StatusConflict,
	ErrCodeSalaryCapExceeded: http.StatusUnprocessableEntity,
	ErrCodeNotOnTeam:         http.StatusNotFound,
}

// StatusFor returns the HTTP status sent with an error code. Unknown codes
// are treated as internal errors.
func StatusFor(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, "; "),
	}
}

func (e *AppError) Status() int {
	return StatusFor(e.Code)
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(" - ")
		b.WriteString(e.Details)
	}
	return b.String()
}
