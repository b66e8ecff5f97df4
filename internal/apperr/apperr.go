package apperr

import (
	"errors"
	"fmt"
)

// Code classifies a user-facing failure.
type Code string

const (
	// Argument indicates a malformed command shape, e.g. a date without any time.
	Argument Code = "ARGUMENT"
	// DateFormat indicates an unparseable date fragment.
	DateFormat Code = "DATE_FORMAT"
	// TimeFormat indicates an unparseable time fragment.
	TimeFormat Code = "TIME_FORMAT"
	// TimeRange indicates a time that falls outside its day.
	TimeRange Code = "TIME_RANGE"
)

// Error is a failure caused by user input. Message is shown to the user.
type Error struct {
	Code    Code
	Message string
	Input   string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error for the given code and offending input.
func New(code Code, input string) *Error {
	return &Error{Code: code, Message: defaultMessage(code), Input: input}
}

func defaultMessage(code Code) string {
	switch code {
	case Argument:
		return "Argument error."
	case DateFormat:
		return "Date parse failed."
	case TimeFormat:
		return "Time parse failed."
	case TimeRange:
		return "Time format error."
	default:
		return fmt.Sprintf("Unknown error (%s).", code)
	}
}

// CodeOf returns the Code carried by err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
