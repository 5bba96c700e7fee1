package metabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoCachedToken is returned when the cache file is missing or holds no
// token.
var ErrNoCachedToken = errors.New("no cached embed token")

type cacheFile struct {
	JWTToken string `json:"jwt_token"`
	ReportID int    `json:"report_id"`
}

// TokenCache stores the Metabase embed token on disk between browser
// refreshes. Tokens are parsed without signature verification, only to read
// their expiry.
type TokenCache struct {
	path string
}

func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Load returns the cached token and how long it remains valid. A token past
// expiry loads with a negative remainder rather than an error.
func (c *TokenCache) Load() (string, time.Duration, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, ErrNoCachedToken
		}
		return "", 0, fmt.Errorf("failed to read token cache: %w", err)
	}

	var cached cacheFile
	if err := json.Unmarshal(data, &cached); err != nil {
		return "", 0, fmt.Errorf("failed to decode token cache: %w", err)
	}
	if cached.JWTToken == "" {
		return "", 0, ErrNoCachedToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cached.JWTToken, claims); err != nil {
		return "", 0, fmt.Errorf("failed to parse cached token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", 0, errors.New("cached token has no expiry claim")
	}

	return cached.JWTToken, time.Until(exp.Time), nil
}

// Valid reports whether a cached token exists and stays usable beyond the
// buffer.
func (c *TokenCache) Valid(buffer time.Duration) bool {
	_, remaining, err := c.Load()
	return err == nil && remaining > buffer
}

// Save writes the token atomically so a concurrent report run never sees a
// partial file.
func (c *TokenCache) Save(token string, reportID int) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{JWTToken: token, ReportID: reportID}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}
	return nil
}
