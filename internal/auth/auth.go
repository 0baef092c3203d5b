package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/questree/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"
	EnvToken     = "QUESTREE_TOKEN"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the JWT exp claim, if any
}

// Expired reports whether the token carries an expiry that has passed.
func (ti TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".questree"), nil
}

func credFilePath() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns the env override or the saved token; nil when logged out.
func GetToken() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		tok := stripBearer(env)
		return &TokenInfo{Token: tok, Source: "env", ExpiresAt: expiry(tok)}, nil
	}

	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	var ti TokenInfo
	found, err := jsonstore.Load(p, &ti)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if !found {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// SetToken saves token to ~/.questree/credentials.json with owner-only access.
func SetToken(token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	ti := &TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expiry(token),
	}
	if err := jsonstore.Save(p, ti, 0o600); err != nil {
		return nil, err
	}
	return ti, nil
}

func DeleteToken() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	return jsonstore.Remove(p)
}

// Claims decodes a JWT payload without verifying it. Opaque tokens give ok=false.
func Claims(token string) (claims jwt.MapClaims, ok bool) {
	claims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// ClaimsJSON pretty-prints the payload of a JWT.
func ClaimsJSON(token string) (string, bool) {
	claims, ok := Claims(token)
	if !ok {
		return "", false
	}
	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func expiry(token string) *time.Time {
	claims, ok := Claims(token)
	if !ok {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
