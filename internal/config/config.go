package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeSimulate Mode = "simulate"
	ModeV1       Mode = "v1"
	ModeV2       Mode = "v2"
)

// Relays reports whether the mode forwards orders to the gateway.
func (m Mode) Relays() bool {
	return m == ModeV1 || m == ModeV2
}

const (
	defaultHTTPAddr   = ":3000"
	defaultGatewayURL = "https://localhost:5000"
	defaultAccountID  = "DU1234567"
	defaultAPIKey     = "ibkr-relay-dev-key"
)

type Config struct {
	HTTPAddr           string
	Mode               Mode
	GatewayURL         string
	APIKey             string
	APIKeyHash         string
	DefaultAccountID   string
	GatewayTLSInsecure bool
	GatewayTimeout     time.Duration
	CORSOrigins        []string
	LogLevel           string

	// UsingDefaultAPIKey is set when neither API_KEY nor API_KEY_HASH was
	// configured and the development key was filled in.
	UsingDefaultAPIKey bool
}

// Load reads .env (when present) and the process environment once. Values
// already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying fallback defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	var c Config
	c.HTTPAddr = strings.TrimSpace(getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		if port := strings.TrimSpace(getenv("PORT")); port != "" {
			c.HTTPAddr = ":" + port
		} else {
			c.HTTPAddr = defaultHTTPAddr
		}
	}
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(getenv("RELAY_MODE"))))
	if c.Mode == "" {
		c.Mode = ModeSimulate
	}
	if c.Mode != ModeSimulate && c.Mode != ModeV1 && c.Mode != ModeV2 {
		return c, errors.New("invalid RELAY_MODE: use simulate, v1 or v2")
	}
	c.GatewayURL = strings.TrimRight(strings.TrimSpace(getenv("GATEWAY_URL")), "/")
	if c.GatewayURL == "" {
		c.GatewayURL = defaultGatewayURL
	}
	c.APIKeyHash = strings.TrimSpace(getenv("API_KEY_HASH"))
	c.APIKey = getenv("API_KEY")
	if c.APIKey == "" && c.APIKeyHash == "" {
		c.APIKey = defaultAPIKey
		c.UsingDefaultAPIKey = true
	}
	c.DefaultAccountID = strings.TrimSpace(getenv("DEFAULT_ACCOUNT_ID"))
	if c.DefaultAccountID == "" {
		c.DefaultAccountID = defaultAccountID
	}
	insecure := strings.TrimSpace(getenv("GATEWAY_TLS_INSECURE"))
	if insecure == "" {
		c.GatewayTLSInsecure = true
	} else {
		b, err := strconv.ParseBool(insecure)
		if err != nil {
			return c, errors.New("invalid GATEWAY_TLS_INSECURE")
		}
		c.GatewayTLSInsecure = b
	}
	if raw := strings.TrimSpace(getenv("GATEWAY_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, errors.New("invalid GATEWAY_TIMEOUT")
		}
		if d < 0 {
			return c, errors.New("GATEWAY_TIMEOUT must not be negative")
		}
		c.GatewayTimeout = d
	}
	c.CORSOrigins = splitList(getenv("CORS_ORIGINS"))
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	c.LogLevel = strings.TrimSpace(getenv("LOG_LEVEL"))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
