package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Messages shown to the user when the cause is not meant for display.
const (
	MsgServerError = "Server error"
	MsgFailed      = "Failed to summarize. Please try again."
	MsgTimedOut    = "Request timed out. Please try again."
)

// StatusError reports a non-2xx response. The body is kept for logs only.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("summarize: unexpected status %d", e.StatusCode)
}

// APIError carries the "error" field of a response body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrMalformed means a 2xx body could not be read as a summary.
var ErrMalformed = errors.New("summarize: malformed response")

type response struct {
	Summary *string `json:"summary"`
	Error   string  `json:"error"`
}

// SplitSummary turns the newline-delimited summary into points, dropping blank lines.
// Lines are kept as sent; only the blank check trims.
func SplitSummary(summary string) []string {
	parts := strings.Split(summary, "\n")
	points := make([]string, 0, len(parts))
	for _, line := range parts {
		if strings.TrimSpace(line) == "" {
			continue
		}
		points = append(points, line)
	}
	return points
}

// UserMessage maps any submission failure to the single line shown in the error slot.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return MsgServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimedOut
	}
	return MsgFailed
}
