package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const HeaderAPIKey = "X-API-Key"

// Credential is the single static key a caller must present. When Hash is
// set the key itself is never held in memory.
type Credential struct {
	Key  string
	Hash string
}

func NewCredential(key, hash string) (Credential, error) {
	c := Credential{Key: key, Hash: strings.TrimSpace(hash)}
	if c.Hash != "" {
		if _, err := bcrypt.Cost([]byte(c.Hash)); err != nil {
			return c, errors.New("invalid API_KEY_HASH: " + err.Error())
		}
		c.Key = ""
	}
	if c.Key == "" && c.Hash == "" {
		return c, errors.New("no API key configured")
	}
	return c, nil
}

// Matches reports whether provided equals the configured key.
func (c Credential) Matches(provided string) bool {
	if provided == "" {
		return false
	}
	if c.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(provided)) == nil
	}
	return c.Key != "" && provided == c.Key
}

func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
