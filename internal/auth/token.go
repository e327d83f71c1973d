// Package auth issues and reads the JWT bearer tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/storefront/internal/models"
)

// default token lifetime
const defaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Email string      `json:"email,omitempty"`
	Role  models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Token issues and verifies HS256 tokens
type Token struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewAuthToken creates new Token signing with key
func NewAuthToken(key []byte) *Token {
	return &Token{
		key: key,
		ttl: defaultTTL,
		now: time.Now,
	}
}

// CreateToken returns signed token for user
func (t *Token) CreateToken(user *models.User) (string, error) {
	now := t.now()
	c := claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.key)
}

// VerifyToken checks signature and expiry and returns token payload
func (t *Token) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	var c claims
	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return payload(&c)
}

// ParseUnverified reads the payload of a token without checking its signature.
// It is meant for showing who a stored token belongs to, never for access decisions.
func ParseUnverified(tokenString string) (*models.TokenPayload, error) {
	var c claims
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return payload(&c)
}

func payload(c *claims) (*models.TokenPayload, error) {
	p := &models.TokenPayload{
		Email: c.Email,
		Role:  c.Role,
	}
	if c.Subject != "" {
		id, err := strconv.ParseUint(c.Subject, 10, 64)
		if err != nil {
			return nil, ErrInvalidToken
		}
		p.UserID = id
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p, nil
}
