package httputil

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseErrorResponseSuccess(t *testing.T) {
	resp := errorResponse(http.StatusOK, `{"weight":[]}`)

	if err := ParseErrorResponse(resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A success response's body must stay readable.
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"weight":[]}` {
		t.Errorf("body was consumed: %q", body)
	}
}

func TestParseErrorResponseFailure(t *testing.T) {
	resp := errorResponse(http.StatusForbidden, `{"errors":[{"errorType":"insufficient_scope"}]}`)

	err := ParseErrorResponse(resp)
	if err == nil {
		t.Fatal("expected an error for a 403 response")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusForbidden)
	}
	if !strings.Contains(httpErr.Error(), "insufficient_scope") {
		t.Errorf("error message should carry the body excerpt, got %q", httpErr.Error())
	}
}

func TestParseErrorResponseTruncatesBody(t *testing.T) {
	resp := errorResponse(http.StatusInternalServerError, strings.Repeat("x", MaxErrorBodySize*2))

	err := ParseErrorResponse(resp)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if len(httpErr.Body) != MaxErrorBodySize+3 {
		t.Errorf("Body length = %d, want %d (truncated with ellipsis)", len(httpErr.Body), MaxErrorBodySize+3)
	}
	if !strings.HasSuffix(httpErr.Body, "...") {
		t.Errorf("truncated body should end with ellipsis, got %q", httpErr.Body[len(httpErr.Body)-10:])
	}
}
