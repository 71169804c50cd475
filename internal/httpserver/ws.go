package httpserver

import (
	"net/http"
	"strings"
	"time"

	"ibkr-relay/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

// OrderStreamHandler pushes order events to websocket clients as they happen.
type OrderStreamHandler struct {
	bus      *events.Bus
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewOrderStreamHandler(bus *events.Bus, origins []string, log *zap.Logger) *OrderStreamHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderStreamHandler{
		bus: bus,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origins) },
		},
	}
}

func allowOrigin(r *http.Request, origins []string) bool {
	reqOrigin := r.Header.Get("Origin")
	if reqOrigin == "" {
		return true
	}
	for _, o := range origins {
		if o == "*" || strings.EqualFold(o, reqOrigin) {
			return true
		}
	}
	return false
}

func (h *OrderStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case evt, ok := <-sub:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
