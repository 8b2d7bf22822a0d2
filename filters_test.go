package permkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFilterChaining tests that the With* builders compose
func TestFilterChaining(t *testing.T) {
	f := PermissionFilter{}.
		WithKeys("rbac.roles.read", "rbac.roles.write").
		WithCategory("cat-1").
		WithAction(ActionRead).
		WithPage(10, 5)

	assert.Equal(t, []string{"rbac.roles.read", "rbac.roles.write"}, f.Keys)
	assert.Equal(t, "cat-1", f.CategoryID)
	assert.Equal(t, ActionRead, f.Action)
	assert.Equal(t, NewPage(10, 5), f.Page)
}

// TestFilterValueSemantics tests that builders do not mutate their receiver
func TestFilterValueSemantics(t *testing.T) {
	base := RoleFilter{}.WithName("admin")
	derived := base.WithSuper(true)

	assert.Nil(t, base.IsSuper)
	require.NotNil(t, derived.IsSuper)
	assert.True(t, *derived.IsSuper)
	assert.Equal(t, "admin", derived.Name)
}

// TestFilterSuperFlag tests both values of the tri-state super filter
func TestFilterSuperFlag(t *testing.T) {
	on := RoleFilter{}.WithSuper(true)
	off := RoleFilter{}.WithSuper(false)

	require.NotNil(t, on.IsSuper)
	require.NotNil(t, off.IsSuper)
	assert.True(t, *on.IsSuper)
	assert.False(t, *off.IsSuper)
}
