package broker

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/metrics"
	"ibkr-relay/internal/model"
)

const (
	ordersPathFmt  = "/v1/api/iserver/account/%s/orders"
	authStatusPath = "/v1/api/iserver/auth/status"
	maxErrorBody   = 64 << 10
)

// GatewayClient talks to an IBKR Client Portal gateway over REST.
type GatewayClient struct {
	base string
	hc   *http.Client
}

type GatewayOptions struct {
	// InsecureTLS skips certificate verification; the gateway ships with a
	// self-signed certificate.
	InsecureTLS bool
	// Timeout of zero keeps the http.Client default.
	Timeout time.Duration
}

func NewGatewayClient(base string, opts GatewayOptions) *GatewayClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &GatewayClient{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		hc:   &http.Client{Transport: transport, Timeout: opts.Timeout},
	}
}

// NewGatewayClientWithHTTP uses hc as is.
func NewGatewayClientWithHTTP(base string, hc *http.Client) *GatewayClient {
	return &GatewayClient{base: strings.TrimRight(strings.TrimSpace(base), "/"), hc: hc}
}

type placeOrdersBody struct {
	Orders []model.GatewayOrder `json:"orders"`
}

func (c *GatewayClient) PlaceOrders(ctx context.Context, accountID string, orders []model.GatewayOrder) (json.RawMessage, error) {
	payload, err := json.Marshal(placeOrdersBody{Orders: orders})
	if err != nil {
		return nil, err
	}
	u := c.base + fmt.Sprintf(ordersPathFmt, url.PathEscape(accountID))
	return c.post(ctx, metrics.EndpointOrders, u, payload)
}

func (c *GatewayClient) AuthStatus(ctx context.Context) (AuthStatus, error) {
	var out AuthStatus
	raw, err := c.post(ctx, metrics.EndpointAuthStat, c.base+authStatusPath, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode auth status: %w", err)
	}
	return out, nil
}

func (c *GatewayClient) post(ctx context.Context, endpoint, u string, payload []byte) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("new request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ibkr-relay")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &apperr.DownstreamFailure{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &apperr.DownstreamFailure{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &apperr.DownstreamFailure{Status: res.StatusCode, Err: err}
	}
	if !json.Valid(b) {
		return nil, &apperr.DownstreamFailure{Status: res.StatusCode, Err: fmt.Errorf("invalid JSON body: %.200q", string(b))}
	}
	return json.RawMessage(b), nil
}
