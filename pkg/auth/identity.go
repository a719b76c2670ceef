// Package auth carries the identity supplied by an upstream authentication
// middleware; it does not authenticate or authorize anyone itself.
package auth

import (
	"encoding/json"
	"fmt"
)

// Identity is the authenticated principal the gateway receives from an
// upstream authentication middleware for a single request. pkg/tenancy reads
// Subject and Claims["org_id"] to resolve the caller's org; nothing else in
// the gateway inspects an Identity.
type Identity struct {
	// Subject is the unique identifier for the principal (from 'sub' claim).
	Subject string

	// Name is the human-readable name (from 'name' claim).
	Name string

	// Email is the email address (from 'email' claim, if available).
	Email string

	// Claims contains the token's claims, including org_id, which
	// pkg/tenancy falls back to when no X-Organization-Id header is present.
	Claims map[string]any

	// Token is the original authentication token (for pass-through
	// scenarios). Redacted in String() and MarshalJSON() to prevent leakage.
	Token string
}

// String returns a string representation of the Identity with sensitive fields redacted.
// This prevents accidental token leakage when the Identity is logged or printed.
func (i *Identity) String() string {
	if i == nil {
		return "<nil>"
	}

	return fmt.Sprintf("Identity{Subject:%q}", i.Subject)
}

// MarshalJSON implements json.Marshaler to redact sensitive fields during JSON serialization.
// This prevents accidental token leakage in structured logs, API responses, or audit logs.
func (i *Identity) MarshalJSON() ([]byte, error) {
	if i == nil {
		return []byte("null"), nil
	}

	// Create a safe representation with lowercase field names and redacted token
	type SafeIdentity struct {
		Subject string         `json:"subject"`
		Name    string         `json:"name"`
		Email   string         `json:"email"`
		Claims  map[string]any `json:"claims"`
		Token   string         `json:"token"`
	}

	token := i.Token
	if token != "" {
		token = "REDACTED"
	}

	return json.Marshal(&SafeIdentity{
		Subject: i.Subject,
		Name:    i.Name,
		Email:   i.Email,
		Claims:  i.Claims,
		Token:   token,
	})
}
