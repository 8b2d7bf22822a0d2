package permkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestActionValid tests action validation
func TestActionValid(t *testing.T) {
	assert.True(t, ActionRead.Valid())
	assert.True(t, ActionWrite.Valid())
	assert.True(t, ActionDelete.Valid())
	assert.False(t, Action("admin").Valid())
	assert.False(t, Action("").Valid())
}

// TestPermissionRequirement tests the permission to requirement projection
func TestPermissionRequirement(t *testing.T) {
	p := &Permission{Matcher: "/admin/rbac/roles", Action: ActionWrite}
	req := p.Requirement()
	assert.Equal(t, "/admin/rbac/roles", req.Matcher)
	assert.Equal(t, ActionWrite, req.Action)
}

// TestEffectivePermissionsCovers tests requirement coverage on a resolved set
func TestEffectivePermissionsCovers(t *testing.T) {
	effective := &EffectivePermissions{
		RoleIDs: []string{"role-1"},
		Permissions: []Permission{
			{Matcher: "/admin/products", Action: ActionRead},
		},
	}

	assert.True(t, effective.Covers(Requirement{Matcher: "/admin/products", Action: ActionRead}))
	assert.False(t, effective.Covers(Requirement{Matcher: "/admin/products", Action: ActionWrite}))
	assert.False(t, effective.Covers(Requirement{Matcher: "/admin/orders", Action: ActionRead}))

	assert.True(t, effective.CoversAll(nil))
	assert.True(t, effective.CoversAll([]Requirement{
		{Matcher: "/admin/products", Action: ActionRead},
	}))
	assert.False(t, effective.CoversAll([]Requirement{
		{Matcher: "/admin/products", Action: ActionRead},
		{Matcher: "/admin/orders", Action: ActionRead},
	}))
}

// TestEffectivePermissionsSuperAdmin tests that a super set covers anything
func TestEffectivePermissionsSuperAdmin(t *testing.T) {
	effective := &EffectivePermissions{IsSuperAdmin: true}
	assert.True(t, effective.Covers(Requirement{Matcher: "/anything", Action: ActionDelete}))

	perms := superAdminPermissions()
	require.Len(t, perms, len(Actions))
	seen := map[Action]bool{}
	for _, p := range perms {
		assert.Equal(t, "*", p.Matcher)
		assert.Equal(t, "*", p.ID)
		seen[p.Action] = true
	}
	for _, action := range Actions {
		assert.True(t, seen[action])
	}
}
