package broker

import (
	"context"
	"encoding/json"
	"errors"

	"ibkr-relay/internal/model"
)

var ErrDisabled = errors.New("broker adapter not configured")

// DisabledAdapter backs simulation deployments, which must never reach the
// gateway.
type DisabledAdapter struct{}

func NewDisabledAdapter() *DisabledAdapter {
	return &DisabledAdapter{}
}

func (a *DisabledAdapter) PlaceOrders(ctx context.Context, accountID string, orders []model.GatewayOrder) (json.RawMessage, error) {
	return nil, ErrDisabled
}

func (a *DisabledAdapter) AuthStatus(ctx context.Context) (AuthStatus, error) {
	return AuthStatus{}, ErrDisabled
}
