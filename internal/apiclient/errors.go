package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrRequestFailed wraps transport failures (DNS, refused, reset, canceled).
var ErrRequestFailed = errors.New("request failed")

const defaultDetail = "An error occurred"

// Error is a non-2xx response from the control-plane API.
type Error struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ErrorDetail unwraps an *Error to its detail. Any other error yields fallback.
func ErrorDetail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return fallback
}

// newError builds an *Error from a failed response body.
// detail comes from "detail", then "message"; an unparsable body yields the status text.
func newError(resp *http.Response, body []byte) *Error {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{Status: resp.StatusCode, Detail: statusText(resp)}
	}
	return &Error{Status: resp.StatusCode, Detail: detailFrom(payload)}
}

func detailFrom(payload map[string]any) string {
	for _, key := range []string{"detail", "message"} {
		switch v := payload[key].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		default:
			// Validation errors arrive as structured detail; keep them readable.
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
	}
	return defaultDetail
}

func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if s := strings.TrimPrefix(resp.Status, prefix); s != "" && s != resp.Status {
		return s
	}
	if s := http.StatusText(resp.StatusCode); s != "" {
		return s
	}
	return defaultDetail
}
