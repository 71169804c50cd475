package health

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ibkr-relay/internal/broker"
	"ibkr-relay/internal/httputil"

	"go.uber.org/zap"
)

const (
	GatewaySimulated     = "simulated"
	GatewayAuthenticated = "authenticated"
	GatewayConnected     = "connected"
	GatewayDisconnected  = "disconnected"

	statusTimeout = 5 * time.Second

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type Handler struct {
	service   string
	mode      string
	adapter   broker.Adapter
	log       *zap.Logger
	startedAt time.Time
}

// NewHandler reports liveness. A nil adapter means the deployment never talks
// to the gateway and the gateway is reported as simulated.
func NewHandler(service, mode string, adapter broker.Adapter, log *zap.Logger, startedAt time.Time) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service:   strings.TrimSpace(service),
		mode:      mode,
		adapter:   adapter,
		log:       log,
		startedAt: start,
	}
}

type healthResponse struct {
	Status       string             `json:"status"`
	Service      string             `json:"service"`
	Mode         string             `json:"mode"`
	IBKRGateway  string             `json:"ibkr_gateway"`
	GatewayAuth  *broker.AuthStatus `json:"gateway_auth,omitempty"`
	GatewayError string             `json:"gateway_error,omitempty"`
	Timestamp    string             `json:"timestamp"`
	UptimeSec    int64              `json:"uptime_sec"`
	Uptime       string             `json:"uptime"`
}

func (h *Handler) uptime(now time.Time) time.Duration {
	uptime := now.Sub(h.startedAt)
	if uptime < 0 {
		return 0
	}
	return uptime
}

// gatewayState never fails: any error is folded into a disconnected status.
func (h *Handler) gatewayState(ctx context.Context) (string, *broker.AuthStatus, string) {
	if h.adapter == nil {
		return GatewaySimulated, nil, ""
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	st, err := h.adapter.AuthStatus(ctx)
	if err != nil {
		h.log.Warn("gateway status check failed", zap.Error(err))
		return GatewayDisconnected, nil, err.Error()
	}
	switch {
	case st.Authenticated:
		return GatewayAuthenticated, &st, ""
	case st.Connected:
		return GatewayConnected, &st, ""
	default:
		return GatewayDisconnected, &st, ""
	}
}

// Get always answers 200 while the process is up.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	gw, auth, gwErr := h.gatewayState(r.Context())
	now := time.Now().UTC()
	uptime := h.uptime(now)
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:       "online",
		Service:      h.service,
		Mode:         h.mode,
		IBKRGateway:  gw,
		GatewayAuth:  auth,
		GatewayError: gwErr,
		Timestamp:    now.Format(timestampLayout),
		UptimeSec:    int64(uptime.Seconds()),
		Uptime:       uptime.String(),
	})
}
