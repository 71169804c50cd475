package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/model"
	"ibkr-relay/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrdersPostsBatchAndReturnsBodyVerbatim(t *testing.T) {
	const reply = `[{"order_id":"1234567","order_status":"Submitted","encrypt_message":"1"}]`
	var gotPath, gotContentType string
	var gotBody placeOrdersBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	defer srv.Close()

	c := NewGatewayClientWithHTTP(srv.URL+"/", srv.Client())
	orders := []model.GatewayOrder{{
		AccountID:     "DU1234567",
		Conid:         265598,
		SecType:       "265598:STK",
		ClientOrderID: "relay-1",
		OrderType:     types.OrderTypeLimit,
		Side:          types.OrderSideBuy,
		Quantity:      model.Amount{Decimal: decimal.NewFromInt(10)},
		Price:         model.NewAmount(decimal.NewFromInt(150)),
		TimeInForce:   types.TimeInForceDay,
	}}

	raw, err := c.PlaceOrders(context.Background(), "DU1234567", orders)
	require.NoError(t, err)

	assert.Equal(t, "/v1/api/iserver/account/DU1234567/orders", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	require.Len(t, gotBody.Orders, 1)
	assert.Equal(t, int64(265598), gotBody.Orders[0].Conid)
	assert.Equal(t, "10", gotBody.Orders[0].Quantity.String())
	assert.JSONEq(t, reply, string(raw))
}

func TestPlaceOrdersNon2xxIsDownstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewGatewayClientWithHTTP(srv.URL, srv.Client())
	_, err := c.PlaceOrders(context.Background(), "DU1", nil)

	var down *apperr.DownstreamFailure
	require.True(t, errors.As(err, &down))
	assert.Equal(t, http.StatusUnauthorized, down.Status)
	assert.Equal(t, "not authenticated", down.Body)
	assert.Contains(t, err.Error(), "401")
}

func TestPlaceOrdersRejectsNonJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>login</html>")
	}))
	defer srv.Close()

	c := NewGatewayClientWithHTTP(srv.URL, srv.Client())
	_, err := c.PlaceOrders(context.Background(), "DU1", nil)

	var down *apperr.DownstreamFailure
	require.True(t, errors.As(err, &down))
	assert.Equal(t, http.StatusOK, down.Status)
}

func TestPlaceOrdersUnreachableGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewGatewayClient(base, GatewayOptions{})
	_, err := c.PlaceOrders(context.Background(), "DU1", nil)

	var down *apperr.DownstreamFailure
	require.True(t, errors.As(err, &down))
	assert.Zero(t, down.Status)
	assert.Error(t, down.Err)
}

func TestAuthStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, authStatusPath, r.URL.Path)
		_, _ = io.WriteString(w, `{"authenticated":true,"connected":true,"competing":false}`)
	}))
	defer srv.Close()

	st, err := NewGatewayClientWithHTTP(srv.URL, srv.Client()).AuthStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Authenticated)
	assert.True(t, st.Connected)
}

func TestDisabledAdapter(t *testing.T) {
	a := NewDisabledAdapter()
	_, err := a.PlaceOrders(context.Background(), "DU1", nil)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = a.AuthStatus(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}
