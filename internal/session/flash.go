// Package session carries one-shot flash messages between requests in an
// HS256-signed cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// CookieName is the cookie holding pending flash messages.
const CookieName = "fyyur_flash"

const contextKey = "session.flashes"

// flashClaims is the signed cookie payload.  Messages are shown once and
// then dropped.
type flashClaims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// FlashStore reads and writes flash messages.  It keeps the messages of the
// current request in the echo context so a page rendered by the same
// request sees them without a round trip.
type FlashStore struct {
	secret []byte
	secure bool
	ttl    time.Duration
}

// NewFlashStore signs cookies with secret.  secure marks the cookie
// HTTPS-only.
func NewFlashStore(secret string, secure bool) *FlashStore {
	return &FlashStore{secret: []byte(secret), secure: secure, ttl: 10 * time.Minute}
}

// Add queues msg for display on the next rendered page.
func (s *FlashStore) Add(c echo.Context, msg string) error {
	msgs := append(s.pending(c), msg)
	c.Set(contextKey, msgs)
	token, err := s.sign(msgs)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Consume returns every pending message and clears them.
func (s *FlashStore) Consume(c echo.Context) []string {
	msgs := s.pending(c)
	c.Set(contextKey, []string{})
	if len(msgs) == 0 {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return msgs
}

// pending loads the messages for this request, reading the cookie the
// first time.  A tampered or expired cookie yields no messages.
func (s *FlashStore) pending(c echo.Context) []string {
	if v, ok := c.Get(contextKey).([]string); ok {
		return v
	}
	var msgs []string
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		if parsed, err := s.parse(ck.Value); err == nil {
			msgs = parsed
		}
	}
	c.Set(contextKey, msgs)
	return msgs
}

func (s *FlashStore) sign(msgs []string) (string, error) {
	now := time.Now().UTC()
	claims := flashClaims{
		Messages: msgs,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

var errBadFlash = errors.New("invalid flash cookie")

func (s *FlashStore) parse(raw string) ([]string, error) {
	var claims flashClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errBadFlash
	}
	return claims.Messages, nil
}
