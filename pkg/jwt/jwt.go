package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

// Claims are the session claims issued by the identity provider.
// Plan and features arrive as comma-separated lists, optionally scoped
// with a "u:" or "o:" prefix.
type Claims struct {
	Plan        string   `json:"pla,omitempty"`
	Features    string   `json:"fea,omitempty"`
	Permissions []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// PlanSlugs returns the plan slugs with scope prefixes removed.
func (c *Claims) PlanSlugs() []string {
	return splitScoped(c.Plan)
}

// FeatureSlugs returns the feature slugs with scope prefixes removed.
func (c *Claims) FeatureSlugs() []string {
	return splitScoped(c.Features)
}

func splitScoped(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if i := strings.Index(part, ":"); i >= 0 && i <= 2 {
			part = part[i+1:]
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Service signs and verifies HS256 session tokens.
type Service struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
}

// NewService creates a token service. An empty issuer skips the iss check.
func NewService(secretKey, issuer string, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = time.Hour
	}
	return &Service{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		expiry:    expiry,
	}
}

// GenerateToken issues a token for userID. It is used by local tooling and
// tests; production tokens come from the identity provider.
func (s *Service) GenerateToken(userID string, claims Claims) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken verifies tokenString and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrNoSecret
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
