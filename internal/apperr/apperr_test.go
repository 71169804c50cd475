package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Unauthorized{})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized: invalid or missing API key", body["error"])
}

func TestWriteDownstreamFailureCarriesStatusAndHint(t *testing.T) {
	err := fmt.Errorf("place orders: %w", &DownstreamFailure{Status: 503, Body: "gateway offline"})
	rec := httptest.NewRecorder()
	Write(rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "503")
	assert.Contains(t, body["error"], "gateway offline")
	assert.Equal(t, gatewayHint, body["hint"])
}

func TestDownstreamFailureTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &DownstreamFailure{Err: cause}
	assert.Equal(t, "gateway unreachable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWriteNotFoundListsRoutes(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound{Routes: []string{"GET /", "POST /api/order"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Endpoint not found", body["error"])
	assert.Equal(t, []any{"GET /", "POST /api/order"}, body["available_routes"])
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(BadRequest{Reason: "eof"}))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}
