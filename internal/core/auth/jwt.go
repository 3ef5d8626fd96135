package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"umkm-marketplace/internal/domain"
)

var (
	ErrMalformedToken  = errors.New("malformed token")
	ErrExpiredToken    = errors.New("expired token")
	ErrIncompleteToken = errors.New("token missing id or role")
)

// Claims is the token payload. UserID is a pointer so a token without an
// "id" claim can be told apart from user 0.
type Claims struct {
	UserID *int64 `json:"id,omitempty"`
	Phone  string `json:"no_hp,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTer signs and verifies identity tokens with a process-wide HS256 secret.
// TTL 0 issues tokens without an expiry.
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration
}

func (j *JWTer) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	id := p.ID
	claims := Claims{
		UserID: &id,
		Phone:  p.Phone,
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   j.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.TTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Decode(tokenStr string) (domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(j.Leeway),
		jwt.WithIssuedAt(),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}

	var c Claims
	t, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Principal{}, ErrExpiredToken
	case err != nil || !t.Valid:
		return domain.Principal{}, ErrMalformedToken
	}

	role, ok := domain.ParseRole(c.Role)
	if c.UserID == nil || !ok {
		return domain.Principal{}, ErrIncompleteToken
	}
	return domain.Principal{ID: *c.UserID, Phone: c.Phone, Role: role}, nil
}
