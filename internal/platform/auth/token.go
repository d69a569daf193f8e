package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired signals that the provided bearer token has expired.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid signals that the provided bearer token failed verification.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Claims is the JWT payload issued at login and verified on every
// authenticated request.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HMAC-signed bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer signing with the given secret.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret required")
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given principal.
func (t *TokenIssuer) Issue(identity Identity) (string, error) {
	if t == nil {
		return "", errors.New("auth: issuer not configured")
	}
	if strings.TrimSpace(identity.UID) == "" {
		return "", errors.New("auth: identity uid required")
	}

	now := t.now()
	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning the embedded identity.
func (t *TokenIssuer) Verify(raw string) (*Identity, error) {
	if t == nil {
		return nil, ErrTokenInvalid
	}

	// Claims are validated against the issuer clock below, so the parser
	// only checks the signature and algorithm.
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	now := t.now()
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, ErrTokenInvalid
	}

	uid := strings.TrimSpace(claims.Subject)
	if uid == "" {
		return nil, ErrTokenInvalid
	}

	role := strings.ToLower(strings.TrimSpace(claims.Role))
	if role == "" {
		role = RoleUser
	}

	return &Identity{
		UID:   uid,
		Email: claims.Email,
		Role:  role,
	}, nil
}
