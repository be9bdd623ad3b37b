// Package httputil provides HTTP error handling utilities.
package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBodySize caps how much of an error response body is carried in
// error messages and logs.
const MaxErrorBodySize = 500

// HTTPError is a non-success HTTP response with enough context to log the
// failure usefully: status, a truncated body excerpt, and the request URL.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Status, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s (status %d)", e.Status, e.StatusCode)
}

// ParseErrorResponse returns an *HTTPError for 4xx/5xx responses and nil
// otherwise. The error consumes the response body; success responses are left
// untouched for the caller to read.
func ParseErrorResponse(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize+1))
	resp.Body.Close()

	body := string(bodyBytes)
	if len(body) > MaxErrorBodySize {
		body = body[:MaxErrorBodySize] + "..."
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       body,
		URL:        url,
	}
}
