package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"ibkr-relay/internal/types"

	"github.com/shopspring/decimal"
)

// Amount is a decimal that decodes from a JSON number or a numeric string and
// always encodes as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// maxExponent bounds the decimal exponent; String expands the coefficient by
// 10^exponent, so an unbounded exponent costs unbounded CPU and memory.
const maxExponent = 32

var ErrAmountOutOfRange = errors.New("amount exponent out of range")

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return ErrAmountOutOfRange
	}
	a.Decimal = d
	return nil
}

// ParseAmount decodes a raw JSON amount. Absent and null values yield nil.
func ParseAmount(raw json.RawMessage) (*Amount, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var a Amount
	if err := a.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return &a, nil
}

// OrderRequest is the payload an automation tool posts. Every field is
// optional; defaults are filled in when the order is translated. Quantity
// and price stay raw until a relay parses them.
type OrderRequest struct {
	Ticker        string          `json:"ticker"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Quantity      json.RawMessage `json:"quantity"`
	Price         json.RawMessage `json:"price"`
	AccountID     string          `json:"acctId"`
	Conid         json.Number     `json:"conid"`
	SecType       string          `json:"secType"`
	OrderType     string          `json:"orderType"`
	TimeInForce   string          `json:"tif"`
	OutsideRTH    *bool           `json:"outsideRTH"`
	ClientOrderID string          `json:"cOID"`
}

// Instrument returns the ticker, falling back to symbol.
func (r OrderRequest) Instrument() string {
	if t := strings.TrimSpace(r.Ticker); t != "" {
		return t
	}
	return strings.TrimSpace(r.Symbol)
}

// GatewayOrder is one entry of the IBKR Client Portal order placement body.
type GatewayOrder struct {
	AccountID     string            `json:"acctId"`
	Conid         int64             `json:"conid,omitempty"`
	SecType       string            `json:"secType,omitempty"`
	ClientOrderID string            `json:"cOID"`
	OrderType     types.OrderType   `json:"orderType"`
	Ticker        string            `json:"ticker,omitempty"`
	Side          types.OrderSide   `json:"side"`
	Quantity      Amount            `json:"quantity"`
	Price         *Amount           `json:"price,omitempty"`
	TimeInForce   types.TimeInForce `json:"tif"`
	OutsideRTH    bool              `json:"outsideRTH"`
}
