// Package apperr holds the closed set of errors the relay reports to callers
// and their mapping onto HTTP status codes and JSON envelopes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"ibkr-relay/internal/httputil"
)

const gatewayHint = "Check that the IBKR gateway is running and authenticated"

type Unauthorized struct{}

func (Unauthorized) Error() string { return "Unauthorized: invalid or missing API key" }

// DownstreamFailure is a failed gateway call. Status is 0 when no response
// was received at all.
type DownstreamFailure struct {
	Status int
	Body   string
	Err    error
}

func (e *DownstreamFailure) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("gateway unreachable: %v", e.Err)
		}
		return "gateway unreachable"
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway returned %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Body)
}

func (e *DownstreamFailure) Unwrap() error { return e.Err }

type NotFound struct {
	Routes []string
}

func (NotFound) Error() string { return "Endpoint not found" }

type BadRequest struct {
	Reason string
}

func (e BadRequest) Error() string { return "invalid request body: " + e.Reason }

type notFoundResponse struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error"`
	AvailableRoutes []string `json:"available_routes"`
}

// Status maps err onto the HTTP status code it is reported with.
func Status(err error) int {
	var (
		unauth Unauthorized
		down   *DownstreamFailure
		nf     NotFound
		bad    BadRequest
	)
	switch {
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.As(err, &down):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Write renders err as the JSON error envelope.
func Write(w http.ResponseWriter, err error) {
	var (
		down *DownstreamFailure
		nf   NotFound
	)
	status := Status(err)
	switch {
	case errors.As(err, &nf):
		routes := nf.Routes
		if routes == nil {
			routes = []string{}
		}
		httputil.WriteJSON(w, status, notFoundResponse{Error: nf.Error(), AvailableRoutes: routes})
	case errors.As(err, &down):
		httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: err.Error(), Hint: gatewayHint})
	default:
		httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: err.Error()})
	}
}
