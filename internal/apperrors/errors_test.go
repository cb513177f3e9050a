package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(Validation("x")) != KindValidation {
		t.Error("validation error misclassified")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain error must be unknown")
	}
	// Classification survives wrapping.
	wrapped := fmt.Errorf("context: %w", RateLimited("despacio"))
	if KindOf(wrapped) != KindRateLimited {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
}

func TestUserMessage(t *testing.T) {
	inner := errors.New("pq: connection refused")
	err := Wrap(KindUnknown, "no se pudo guardar", inner)
	if UserMessage(err) != "no se pudo guardar" {
		t.Errorf("got %q", UserMessage(err))
	}
	// Transport detail stays in Error() for logs.
	if err.Error() != "no se pudo guardar: pq: connection refused" {
		t.Errorf("got %q", err.Error())
	}
	if UserMessage(inner) != "error interno del servidor" {
		t.Error("plain errors must render the generic message")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:    http.StatusBadRequest,
		KindSpamRejected:  http.StatusBadRequest,
		KindNotFound:      http.StatusNotFound,
		KindRateLimited:   http.StatusTooManyRequests,
		KindAuth:          http.StatusForbidden,
		KindTimeout:       http.StatusGatewayTimeout,
		KindUnavailable:   http.StatusServiceUnavailable,
		KindConfiguration: http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(New(kind, "m")); got != want {
			t.Errorf("kind %d: got %d, want %d", kind, got, want)
		}
	}
	if HTTPStatus(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("plain error must map to 500")
	}
}
