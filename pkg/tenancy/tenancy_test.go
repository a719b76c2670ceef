package tenancy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-gateway/pkg/auth"
)

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	global := Filter{OrgID: "org-a"}
	require.True(t, global.Matches(true, "org-b"), "global rows are always visible")
	require.True(t, global.Matches(false, "org-a"), "own org rows are visible")
	require.False(t, global.Matches(false, "org-b"), "other org rows are never visible")

	anon := Filter{}
	require.True(t, anon.Matches(true, ""))
	require.False(t, anon.Matches(false, "org-a"), "global-only caller never sees org-scoped rows")
}

func TestFilter_Key(t *testing.T) {
	t.Parallel()

	require.Equal(t, "global", Filter{}.Key())
	require.Equal(t, "org-a", Filter{OrgID: "org-a"}.Key())
}

func TestResolveFromRequest_HeaderOverride(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set(OrgHeader, "org-header")

	ctx := auth.WithIdentity(req.Context(), &auth.Identity{Claims: map[string]any{"org_id": "org-claim"}})
	req = req.WithContext(ctx)

	f := ResolveFromRequest(req)
	require.Equal(t, "org-header", f.OrgID, "header takes precedence over identity claim")
}

func TestResolveFromRequest_FallsBackToClaim(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	ctx := auth.WithIdentity(req.Context(), &auth.Identity{Claims: map[string]any{"org_id": "org-claim"}})
	req = req.WithContext(ctx)

	f := ResolveFromRequest(req)
	require.Equal(t, "org-claim", f.OrgID)
}

func TestResolveFromRequest_NoIdentity(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	f := ResolveFromRequest(req)
	require.Equal(t, Filter{}, f)
}

func TestResolveFromContext(t *testing.T) {
	t.Parallel()

	ctx := auth.WithIdentity(context.Background(), &auth.Identity{Claims: map[string]any{"org_id": "org-z"}})
	f := ResolveFromContext(ctx)
	require.Equal(t, "org-z", f.OrgID)
}

func TestResourceVisible(t *testing.T) {
	t.Parallel()

	f := Filter{OrgID: "org-a"}

	// Tenancy alone excludes it -> ACL is never consulted.
	require.False(t, ResourceVisible(f, false, "org-b", nil, "alice"))

	// Tenancy allows it, empty ACL -> visible.
	require.True(t, ResourceVisible(f, false, "org-a", nil, "alice"))

	// Tenancy allows it, non-empty ACL excluding caller -> hidden.
	require.False(t, ResourceVisible(f, true, "", []string{"bob"}, "alice"))

	// Tenancy allows it, non-empty ACL including caller -> visible.
	require.True(t, ResourceVisible(f, true, "", []string{"alice", "bob"}, "alice"))
}
