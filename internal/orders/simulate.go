package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"ibkr-relay/internal/model"
	"ibkr-relay/internal/types"
)

const simulationEnvironment = "Paper Trading Simulation"

type SimulatedFill struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	OrderID     string            `json:"order_id"`
	Account     string            `json:"account"`
	Symbol      string            `json:"symbol,omitempty"`
	Quantity    json.RawMessage   `json:"quantity,omitempty"`
	Price       json.RawMessage   `json:"price,omitempty"`
	Status      types.OrderStatus `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment string            `json:"environment"`
}

// Simulate fabricates an immediate fill for req. Quantity and price are
// echoed exactly as sent.
func Simulate(req model.OrderRequest, defaultAccount string, now time.Time) SimulatedFill {
	account := req.AccountID
	if account == "" {
		account = defaultAccount
	}
	now = now.UTC()
	return SimulatedFill{
		Success:     true,
		Message:     "Paper trading order simulated successfully",
		OrderID:     fmt.Sprintf("PAPER_%d", now.UnixMilli()),
		Account:     account,
		Symbol:      req.Instrument(),
		Quantity:    req.Quantity,
		Price:       req.Price,
		Status:      types.OrderStatusFilled,
		Timestamp:   now.Format(timestampLayout),
		Environment: simulationEnvironment,
	}
}
