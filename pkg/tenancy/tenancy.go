// Package tenancy implements the gateway's single tenancy predicate: every
// user-facing read is scoped to "is_global OR org_id = caller".
package tenancy

import (
	"context"
	"net/http"

	"github.com/stacklok/toolhive-gateway/pkg/auth"
)

// OrgHeader is the header that overrides the org claim in the caller's
// identity.
const OrgHeader = "X-Organization-Id"

// Filter is the resolved tenancy predicate for one caller. It is a plain
// value, not a closure, so it can be used as a cache key component.
type Filter struct {
	// OrgID is the caller's resolved org, or "" for "global only".
	OrgID string
}

// Key returns a stable cache-key fragment for this filter: "global" when
// there is no org, else the org id itself.
func (f Filter) Key() string {
	if f.OrgID == "" {
		return "global"
	}
	return f.OrgID
}

// Matches reports whether a row with the given visibility is visible under
// this filter: a row is visible to a caller with org O iff
// is_global=true OR org_id=O.
func (f Filter) Matches(isGlobal bool, rowOrgID string) bool {
	if isGlobal {
		return true
	}
	return f.OrgID != "" && rowOrgID == f.OrgID
}

// ResolveFromRequest builds a Filter for an inbound HTTP request: the
// X-Organization-Id header takes precedence over the org claim carried by
// the caller's Identity; a caller authenticated to no org at all resolves to
// "global only".
func ResolveFromRequest(r *http.Request) Filter {
	if h := r.Header.Get(OrgHeader); h != "" {
		return Filter{OrgID: h}
	}
	return ResolveFromContext(r.Context())
}

// ResolveFromContext builds a Filter purely from the identity attached to
// ctx (no header override), for non-HTTP callers (e.g. the MCP server
// surface, background sync).
func ResolveFromContext(ctx context.Context) Filter {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil {
		return Filter{}
	}
	if orgID, ok := identity.Claims["org_id"].(string); ok {
		return Filter{OrgID: orgID}
	}
	return Filter{}
}

// ResourceVisible layers a Resource's ACL (allowedSubjects) on top of the
// base tenancy predicate as an additional restriction, never a widening of
// it. An empty ACL means "tenancy rule alone governs"; a
// non-empty ACL additionally requires callerSubject to appear in it.
func ResourceVisible(f Filter, isGlobal bool, rowOrgID string, allowedSubjects []string, callerSubject string) bool {
	if !f.Matches(isGlobal, rowOrgID) {
		return false
	}
	if len(allowedSubjects) == 0 {
		return true
	}
	for _, s := range allowedSubjects {
		if s == callerSubject {
			return true
		}
	}
	return false
}
