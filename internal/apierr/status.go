package apierr

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad request. Please review the form and try again.",
	http.StatusUnauthorized:        "Not authorized. Please sign in again.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "Not found. Please refresh and try again.",
	http.StatusConflict:            "Request conflict. Please retry.",
	http.StatusUnprocessableEntity: "Validation failed. Please review the inputs.",
	http.StatusInternalServerError: "Server error. Please try again later.",
}

// DescribeStatus returns the fallback message for a status code.
// Known codes win over the reason phrase sent by the server.
func DescribeStatus(code int, reason string) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	if reason != "" {
		return reason
	}
	return fmt.Sprintf("Request failed (HTTP %d)", code)
}

// ReasonPhrase extracts the reason from a status line such as "404 Not Found".
func ReasonPhrase(code int, status string) string {
	reason := strings.TrimPrefix(status, strconv.Itoa(code))
	return strings.TrimSpace(reason)
}
