package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no access token set")
	ErrTokenExpired = errors.New("access token expired")
)

// TokenSource supplies the bearer token attached to backend requests.
type TokenSource interface {
	Token() (string, error)
}

// Credentials stores the session's access token. Tokens are issued and
// verified by the external auth service; here we only keep the string and
// refuse to send one whose exp claim has clearly passed.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Credentials) ClearToken() {
	c.SetToken("")
}

// Token returns the stored token, or an error when none is set or the token
// carries an already-passed expiry. Opaque non-JWT tokens pass through
// untouched.
func (c *Credentials) Token() (string, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		return "", ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Not a JWT; let the backend decide.
		return token, nil
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(time.Now()) {
		return "", ErrTokenExpired
	}
	return token, nil
}
