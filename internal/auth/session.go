// Package auth holds the operator session of the dashboard: who signed in and
// when. The session is carried in a signed token; there are no passwords.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionExpiry is the lifetime of a sign-in.
const SessionExpiry = 24 * time.Hour

// ErrInvalidEmail is returned by SignIn for an unusable address.
var ErrInvalidEmail = errors.New("a valid email address is required")

// Session is a signed-in operator.
type Session struct {
	Email      string
	SignedInAt time.Time
	ExpiresAt  time.Time
}

// Claims represents the JWT claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager returns a manager signing with secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), now: time.Now}
}

// SignIn starts a session for email and returns it with its token.
func (m *Manager) SignIn(email string) (*Session, string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, "", ErrInvalidEmail
	}

	jti, err := generateJTI()
	if err != nil {
		return nil, "", fmt.Errorf("generating JTI: %w", err)
	}

	now := m.now()
	s := &Session{
		Email:      strings.ToLower(email),
		SignedInAt: now.Truncate(time.Second),
		ExpiresAt:  now.Add(SessionExpiry).Truncate(time.Second),
	}

	claims := Claims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   s.Email,
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.SignedInAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}
	return s, signed, nil
}

// Verify parses and validates a session token.
func (m *Manager) Verify(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("invalid token")
	}

	s := &Session{Email: claims.Email}
	if claims.IssuedAt != nil {
		s.SignedInAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// GenerateSecret returns a random hex signing key.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
