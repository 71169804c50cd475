package broker

import (
	"context"
	"encoding/json"

	"ibkr-relay/internal/model"
)

// AuthStatus mirrors the gateway's /iserver/auth/status body.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Connected     bool   `json:"connected"`
	Competing     bool   `json:"competing"`
	Message       string `json:"message,omitempty"`
}

type Adapter interface {
	// PlaceOrders submits every order in one call and returns the gateway's
	// JSON body unmodified.
	PlaceOrders(ctx context.Context, accountID string, orders []model.GatewayOrder) (json.RawMessage, error)
	AuthStatus(ctx context.Context) (AuthStatus, error)
}
