package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSecretRequired = errors.New("session secret required")

// Data is everything the storefront keeps in a session.
type Data struct {
	CurrentCartID string
}

type claims struct {
	CurrentCartID string `json:"currentCartId,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens. Tokens are HS256 JWTs; the web
// layer decides how they travel (a cookie).
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Get decodes a token. Missing, tampered or expired tokens read as an empty
// session.
func (s *Service) Get(token string) Data {
	if token == "" {
		return Data{}
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return Data{}
	}
	return Data{CurrentCartID: c.CurrentCartID}
}

// Set returns a new token holding data. The previous token is only carried
// for symmetry with Get; nothing else lives in the session.
func (s *Service) Set(_ string, data Data) (string, error) {
	now := s.now()
	c := claims{
		CurrentCartID: data.CurrentCartID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// TTLSeconds is the cookie max age matching token expiry.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
