package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/broker"
	"ibkr-relay/internal/events"
	"ibkr-relay/internal/metrics"
	"ibkr-relay/internal/model"

	"go.uber.org/zap"
)

// timestampLayout is RFC3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Service struct {
	adapter  broker.Adapter
	bus      *events.Bus
	log      *zap.Logger
	mode     string
	defaults Defaults
	now      func() time.Time
}

type ServiceOptions struct {
	Mode             string
	DefaultAccountID string
	// NewClientOrderID overrides the generated cOID; nil uses a uuid.
	NewClientOrderID func() string
	Now              func() time.Time
}

func NewService(adapter broker.Adapter, bus *events.Bus, log *zap.Logger, opts ServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		adapter: adapter,
		bus:     bus,
		log:     log,
		mode:    opts.Mode,
		defaults: Defaults{
			AccountID:        opts.DefaultAccountID,
			NewClientOrderID: opts.NewClientOrderID,
		},
		now: now,
	}
}

type RelayResult struct {
	Success         bool                 `json:"success"`
	Message         string               `json:"message"`
	Account         string               `json:"account"`
	Orders          []model.GatewayOrder `json:"orders"`
	GatewayResponse json.RawMessage      `json:"gateway_response"`
	Timestamp       string               `json:"timestamp"`
}

type failedEvent struct {
	Account string `json:"account"`
	Count   int    `json:"count"`
	Error   string `json:"error"`
}

func (s *Service) Simulate(req model.OrderRequest) SimulatedFill {
	fill := Simulate(req, s.defaults.AccountID, s.now())
	s.log.Info("paper order filled",
		zap.String("order_id", fill.OrderID),
		zap.String("symbol", fill.Symbol),
		zap.ByteString("quantity", fill.Quantity),
		zap.ByteString("price", fill.Price),
	)
	metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeFilled).Inc()
	s.bus.Publish(events.Event{Type: events.TypeOrderFilled, Data: fill, TS: s.now().UnixMilli()})
	return fill
}

// Place translates reqs and submits them to the gateway in a single call. A
// failed call fails the whole batch.
func (s *Service) Place(ctx context.Context, reqs []model.OrderRequest) (RelayResult, error) {
	if len(reqs) == 0 {
		metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeRejected).Inc()
		return RelayResult{}, apperr.BadRequest{Reason: "no orders in request"}
	}
	out := make([]model.GatewayOrder, 0, len(reqs))
	for i, req := range reqs {
		o, err := Translate(req, s.defaults)
		if err != nil {
			metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeRejected).Add(float64(len(reqs)))
			return RelayResult{}, fmt.Errorf("order %d: %w", i, err)
		}
		if len(out) > 0 && o.AccountID != out[0].AccountID {
			metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeRejected).Add(float64(len(reqs)))
			return RelayResult{}, apperr.BadRequest{Reason: "all orders in a batch must use the same acctId"}
		}
		out = append(out, o)
	}
	account := out[0].AccountID

	raw, err := s.adapter.PlaceOrders(ctx, account, out)
	if err != nil {
		s.log.Error("gateway order placement failed",
			zap.String("account", account),
			zap.Int("orders", len(out)),
			zap.Error(err),
		)
		metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeFailed).Add(float64(len(out)))
		s.bus.Publish(events.Event{
			Type: events.TypeOrderFailed,
			Data: failedEvent{Account: account, Count: len(out), Error: err.Error()},
			TS:   s.now().UnixMilli(),
		})
		return RelayResult{}, fmt.Errorf("place orders: %w", err)
	}

	msg := "Order sent to IBKR"
	if len(out) > 1 {
		msg = fmt.Sprintf("%d orders sent to IBKR", len(out))
	}
	res := RelayResult{
		Success:         true,
		Message:         msg,
		Account:         account,
		Orders:          out,
		GatewayResponse: raw,
		Timestamp:       s.now().UTC().Format(timestampLayout),
	}
	s.log.Info("orders relayed", zap.String("account", account), zap.Int("orders", len(out)))
	metrics.OrdersTotal.WithLabelValues(s.mode, metrics.OutcomeRelayed).Add(float64(len(out)))
	s.bus.Publish(events.Event{Type: events.TypeOrderRelayed, Data: res, TS: s.now().UnixMilli()})
	return res, nil
}
