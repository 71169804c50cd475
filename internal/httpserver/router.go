package httpserver

import (
	"net/http"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/auth"
	"ibkr-relay/internal/config"
	"ibkr-relay/internal/health"
	"ibkr-relay/internal/httputil"
	"ibkr-relay/internal/orders"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Mode          config.Mode
	Service       string
	OrderHandler  *orders.Handler
	HealthHandler *health.Handler
	StreamHandler http.Handler
	Credential    auth.Credential
	CORSOrigins   []string
	Logger        *zap.Logger
}

type routeSet struct {
	order  string
	health string
}

func routesFor(mode config.Mode) routeSet {
	if mode == config.ModeV2 {
		return routeSet{order: "/api/orders", health: "/health"}
	}
	return routeSet{order: "/api/order", health: "/api/health"}
}

// Routes lists the endpoints a deployment in mode serves, as advertised by
// GET / and by every 404.
func Routes(mode config.Mode) []string {
	rs := routesFor(mode)
	return []string{
		"GET /",
		"POST " + rs.order,
		"GET " + rs.health,
		"GET /api/ws",
		"GET /metrics",
	}
}

type infoResponse struct {
	Message        string         `json:"message"`
	Mode           config.Mode    `json:"mode"`
	Note           string         `json:"note"`
	Endpoints      []string       `json:"endpoints"`
	Auth           string         `json:"auth,omitempty"`
	ExamplePayload map[string]any `json:"example_payload"`
}

func info(d RouterDeps) infoResponse {
	resp := infoResponse{
		Message:   d.Service,
		Mode:      d.Mode,
		Endpoints: Routes(d.Mode),
		ExamplePayload: map[string]any{
			"ticker":   "AAPL",
			"conid":    265598,
			"side":     "BUY",
			"quantity": 10,
			"price":    150,
		},
	}
	switch d.Mode {
	case config.ModeSimulate:
		resp.Note = "SIMULATION - no real IBKR connection"
	case config.ModeV2:
		resp.Note = "Orders are relayed to the IBKR gateway; send {\"orders\":[...]} to place several in one call"
		resp.Auth = "header " + auth.HeaderAPIKey
	default:
		resp.Note = "Orders are relayed to the IBKR gateway"
		resp.Auth = "header " + auth.HeaderAPIKey
	}
	return resp
}

func NewRouter(d RouterDeps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	rs := routesFor(d.Mode)
	notFound := func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, apperr.NotFound{Routes: Routes(d.Mode)})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", auth.HeaderAPIKey},
	}).Handler)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	index := info(d)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, index)
	})
	r.Get(rs.health, d.HealthHandler.Get)
	r.Handle("/metrics", promhttp.Handler())

	if d.Mode.Relays() {
		place := d.OrderHandler.Place
		if d.Mode == config.ModeV2 {
			place = d.OrderHandler.PlaceBatch
		}
		r.With(APIKeyAuth(d.Credential)).Post(rs.order, place)
		r.With(StreamAuth(d.Credential)).Get("/api/ws", d.StreamHandler.ServeHTTP)
	} else {
		r.Post(rs.order, d.OrderHandler.Simulate)
		r.Get("/api/ws", d.StreamHandler.ServeHTTP)
	}
	return r
}
