package orders

import (
	"bytes"
	"encoding/json"
	"net/http"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/httputil"
	"ibkr-relay/internal/model"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Simulate answers every order with a synthetic fill.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		apperr.Write(w, apperr.BadRequest{Reason: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.svc.Simulate(req))
}

// Place relays a single order object.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		apperr.Write(w, apperr.BadRequest{Reason: err.Error()})
		return
	}
	h.relay(w, r, []model.OrderRequest{req})
}

// PlaceBatch relays {"orders":[...]}, a bare array, or a single order object
// in one gateway call.
func (h *Handler) PlaceBatch(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch(r)
	if err != nil {
		apperr.Write(w, apperr.BadRequest{Reason: err.Error()})
		return
	}
	h.relay(w, r, reqs)
}

func (h *Handler) relay(w http.ResponseWriter, r *http.Request, reqs []model.OrderRequest) {
	res, err := h.svc.Place(r.Context(), reqs)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

type batchRequest struct {
	Orders []model.OrderRequest `json:"orders"`
}

func decodeBatch(r *http.Request) ([]model.OrderRequest, error) {
	var raw json.RawMessage
	if err := httputil.ReadJSON(r, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var reqs []model.OrderRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if _, ok := fields["orders"]; ok {
		var batch batchRequest
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, err
		}
		return batch.Orders, nil
	}
	var single model.OrderRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []model.OrderRequest{single}, nil
}
