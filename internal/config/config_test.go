package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, ":3000", c.HTTPAddr)
	assert.Equal(t, ModeSimulate, c.Mode)
	assert.Equal(t, "https://localhost:5000", c.GatewayURL)
	assert.Equal(t, "ibkr-relay-dev-key", c.APIKey)
	assert.True(t, c.UsingDefaultAPIKey)
	assert.Equal(t, "DU1234567", c.DefaultAccountID)
	assert.True(t, c.GatewayTLSInsecure)
	assert.Zero(t, c.GatewayTimeout)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, "info", c.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"PORT":                 "8080",
		"RELAY_MODE":           "V2",
		"GATEWAY_URL":          "https://gw.example:5000/",
		"API_KEY":              "s3cret",
		"DEFAULT_ACCOUNT_ID":   "U7654321",
		"GATEWAY_TLS_INSECURE": "false",
		"GATEWAY_TIMEOUT":      "30s",
		"CORS_ORIGINS":         "https://a.example, https://b.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ModeV2, c.Mode)
	assert.True(t, c.Mode.Relays())
	assert.Equal(t, "https://gw.example:5000", c.GatewayURL)
	assert.Equal(t, "s3cret", c.APIKey)
	assert.False(t, c.UsingDefaultAPIKey)
	assert.Equal(t, "U7654321", c.DefaultAccountID)
	assert.False(t, c.GatewayTLSInsecure)
	assert.Equal(t, 30*time.Second, c.GatewayTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
}

func TestHTTPAddrWinsOverPort(t *testing.T) {
	c, err := FromEnv(env(map[string]string{"HTTP_ADDR": "127.0.0.1:9000", "PORT": "8080"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.HTTPAddr)
}

func TestHashOnlyLeavesKeyEmpty(t *testing.T) {
	c, err := FromEnv(env(map[string]string{"API_KEY_HASH": "$2a$10$abc"}))
	require.NoError(t, err)
	assert.Empty(t, c.APIKey)
	assert.Equal(t, "$2a$10$abc", c.APIKeyHash)
	assert.False(t, c.UsingDefaultAPIKey)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"mode":     {"RELAY_MODE": "live"},
		"insecure": {"GATEWAY_TLS_INSECURE": "maybe"},
		"timeout":  {"GATEWAY_TIMEOUT": "soon"},
		"negative": {"GATEWAY_TIMEOUT": "-1s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
	assert.False(t, ModeSimulate.Relays())
}
