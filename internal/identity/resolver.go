package identity

import (
	"net/http"
	"strings"

	"companion-app/frontend/pkg/jwt"
)

// TokenValidator verifies a session token.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Resolver reads the session token of a request and turns its claims into
// an Identity.
type Resolver struct {
	tokens TokenValidator
	cookie string
}

// NewResolver creates a resolver reading the bearer header, then cookie.
func NewResolver(tokens TokenValidator, cookie string) *Resolver {
	return &Resolver{tokens: tokens, cookie: cookie}
}

// Resolve returns the anonymous identity with a nil error when the request
// carries no token, and an error when a token is present but invalid.
func (r *Resolver) Resolve(req *http.Request) (Identity, error) {
	token := r.tokenFrom(req)
	if token == "" {
		return Identity{}, nil
	}

	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		UserID: claims.Subject,
		Entitlements: Entitlements{
			Plans:       claims.PlanSlugs(),
			Features:    claims.FeatureSlugs(),
			Permissions: claims.Permissions,
		},
	}, nil
}

func (r *Resolver) tokenFrom(req *http.Request) string {
	if header := req.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if r.cookie == "" {
		return ""
	}
	cookie, err := req.Cookie(r.cookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
