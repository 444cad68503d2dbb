package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedPayload    = errors.New("malformed upstream payload")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConfiguration       = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker so callers can classify it with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstreamUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserMessage returns a message that is safe to show to end users for the
// supplied error. Internal detail never leaks through it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "Please select two different titles to compare."
	case errors.Is(err, ErrNotFound):
		return "That title could not be found."
	case errors.Is(err, ErrConfiguration):
		return "The service is not configured correctly."
	default:
		return "Something went wrong fetching data. Please try again."
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
