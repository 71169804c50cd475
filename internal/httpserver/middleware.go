package httpserver

import (
	"net/http"
	"time"

	"ibkr-relay/internal/apperr"
	"ibkr-relay/internal/auth"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// APIKeyAuth lets a request through only when its X-API-Key header matches
// cred. Rejected requests never reach the handler.
func APIKeyAuth(cred auth.Credential) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cred.Matches(r.Header.Get(auth.HeaderAPIKey)) {
				apperr.Write(w, apperr.Unauthorized{})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StreamAuth is APIKeyAuth that also accepts the key as the api_key query
// parameter, since browsers cannot set headers on websocket upgrades.
func StreamAuth(cred auth.Credential) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(auth.HeaderAPIKey)
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if !cred.Matches(key) {
				apperr.Write(w, apperr.Unauthorized{})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote", r.RemoteAddr),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
