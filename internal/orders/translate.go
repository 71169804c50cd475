package orders

import (
	"strconv"
	"strings"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/model"
	"ibkr-relay/internal/types"

	"github.com/google/uuid"
)

type Defaults struct {
	AccountID        string
	NewClientOrderID func() string
}

func newClientOrderID() string {
	return "relay-" + uuid.NewString()
}

// Translate maps an incoming order onto the gateway's field names, filling in
// defaults for anything the caller left out. Values are not validated beyond
// what is needed to encode them: amounts must be numeric with a bounded
// exponent and conid must be an integer.
func Translate(req model.OrderRequest, d Defaults) (model.GatewayOrder, error) {
	out := model.GatewayOrder{
		AccountID:     strings.TrimSpace(req.AccountID),
		SecType:       strings.TrimSpace(req.SecType),
		ClientOrderID: strings.TrimSpace(req.ClientOrderID),
		Ticker:        req.Instrument(),
		Side:          types.OrderSide(strings.ToUpper(strings.TrimSpace(req.Side))),
		OrderType:     types.OrderType(strings.ToUpper(strings.TrimSpace(req.OrderType))),
		TimeInForce:   types.TimeInForce(strings.ToUpper(strings.TrimSpace(req.TimeInForce))),
	}
	qty, err := model.ParseAmount(req.Quantity)
	if err != nil {
		return out, apperr.BadRequest{Reason: "quantity: " + err.Error()}
	}
	price, err := model.ParseAmount(req.Price)
	if err != nil {
		return out, apperr.BadRequest{Reason: "price: " + err.Error()}
	}
	out.Price = price
	if out.AccountID == "" {
		out.AccountID = d.AccountID
	}
	if conid := strings.TrimSpace(req.Conid.String()); conid != "" {
		n, err := strconv.ParseInt(conid, 10, 64)
		if err != nil {
			return out, apperr.BadRequest{Reason: "conid must be an integer"}
		}
		out.Conid = n
	}
	if out.SecType == "" && out.Conid > 0 {
		out.SecType = strconv.FormatInt(out.Conid, 10) + ":" + types.SecTypeStock
	}
	if out.ClientOrderID == "" {
		gen := d.NewClientOrderID
		if gen == nil {
			gen = newClientOrderID
		}
		out.ClientOrderID = gen()
	}
	if out.Side == "" {
		out.Side = types.OrderSideBuy
	}
	if out.OrderType == "" {
		if price != nil {
			out.OrderType = types.OrderTypeLimit
		} else {
			out.OrderType = types.OrderTypeMarket
		}
	}
	if out.TimeInForce == "" {
		out.TimeInForce = types.TimeInForceDay
	}
	if qty != nil {
		out.Quantity = *qty
	}
	if req.OutsideRTH != nil {
		out.OutsideRTH = *req.OutsideRTH
	}
	return out, nil
}
