package httputils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// StatusError is a non-2xx answer from an upstream API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d - %s", e.Code, e.Body)
}

// Temporary reports whether the same request may succeed if sent again.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// IsTransient reports whether err looks like a failure worth one more try:
// an upstream 429/5xx, a timeout or a network error. Cancellation by the
// caller is not transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func NewClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// PostJSON sends body as JSON to path and decodes a 2xx answer into out.
func PostJSON(ctx context.Context, client *resty.Client, path string, headers map[string]string, body, out interface{}) error {
	req := client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{Code: resp.StatusCode(), Body: truncate(resp.String(), 512)}
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
