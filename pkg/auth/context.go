// Package auth carries the identity the gateway receives from an upstream
// authentication middleware. The gateway never performs end-user
// authentication itself.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityContextKey is the key used to store Identity in the request
// context. An empty struct prevents collisions with other packages' context
// keys even if they reuse the same type name.
type IdentityContextKey struct{}

// WithIdentity stores an Identity in the context. If identity is nil, the
// original context is returned unchanged.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, IdentityContextKey{}, identity)
}

// IdentityFromContext retrieves an Identity from the context. Returns the
// identity and true if present, nil and false otherwise.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey{}).(*Identity)
	return identity, ok
}

// IdentityFromBearerToken builds an Identity from an unverified JWT bearer
// token. The gateway trusts the upstream middleware to have already
// validated the signature; this only decodes claims for display and for the
// tenancy-claim fallback used when no X-Organization-Id header is present.
func IdentityFromBearerToken(token string) (*Identity, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claimsToIdentity(claims, token)
}

// claimsToIdentity builds an Identity from a decoded claim set. 'sub' is
// required; 'groups' and similar provider-specific claims are left in Claims
// rather than promoted to typed fields, since their names vary by provider
// (e.g. "groups", "roles", "cognito:groups") and authorization logic must
// read them from Claims directly.
func claimsToIdentity(claims jwt.MapClaims, token string) (*Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("missing or invalid 'sub' claim")
	}

	identity := &Identity{
		Subject: sub,
		Claims:  map[string]any(claims),
		Token:   token,
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}
