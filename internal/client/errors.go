package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest      = errors.New("cms: bad request")
	ErrUnauthorized    = errors.New("cms: unauthorized")
	ErrForbidden       = errors.New("cms: forbidden")
	ErrNotFound        = errors.New("cms: not found")
	ErrConflict        = errors.New("cms: conflict")
	ErrServer          = errors.New("cms: internal error")
	ErrUnavailable     = errors.New("cms: service unavailable")
	ErrInvalidResponse = errors.New("cms: invalid response")
)

// APIError is a non-2xx answer from the CMS. Code is the machine readable
// code from the error body when the CMS sent one.
type APIError struct {
	Status  int
	Code    string
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap maps the response onto one of the package sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "NOT_FOUND":
		return ErrNotFound
	case "CONFLICT":
		return ErrConflict
	case "BAD_REQUEST", "VALIDATION_ERROR":
		return ErrBadRequest
	case "SERVICE_UNAVAILABLE":
		return ErrUnavailable
	}
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusServiceUnavailable, e.Status == http.StatusBadGateway, e.Status == http.StatusGatewayTimeout:
		return ErrUnavailable
	case e.Status >= 500:
		return ErrServer
	}
	return nil
}

// Message returns the text worth showing a user for err: the CMS message
// when there is one, otherwise the fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUpstreamFailure reports whether err means the CMS could not be reached
// or failed on its side, as opposed to rejecting the request.
func IsUpstreamFailure(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrServer) || errors.Is(err, ErrInvalidResponse)
}
