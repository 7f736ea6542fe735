// Package auth issues and verifies session tokens and guards routes with them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"recipebook/models"
)

const issuer = "recipebook"

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail to parse or verify.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Tokens signs and verifies HS256 tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens. A zero ttl means DefaultTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for u.
func (t *Tokens) Issue(u models.User) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns the identity it carries.
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Name: claims.Name, Email: claims.Email}, nil
}
