package permkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBootstrapSeedsBaseCatalog tests the first bootstrap run
func TestBootstrapSeedsBaseCatalog(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	result, err := service.Bootstrap(ctx, "first-admin")
	require.NoError(t, err)
	assert.True(t, result.Initialized)
	assert.Equal(t, len(basePermissions), result.PermissionCount)

	categories, err := store.ListCategories(ctx, CategoryFilter{}.WithName(BaseCategoryName))
	require.NoError(t, err)
	require.Len(t, categories, 1)

	permissions, err := store.ListPermissions(ctx, PermissionFilter{}.WithKeys(BasePermissionKeys()...))
	require.NoError(t, err)
	assert.Len(t, permissions, len(basePermissions))
	for _, permission := range permissions {
		assert.Equal(t, categories[0].ID, permission.CategoryID)
		assert.Equal(t, MatcherTypeAPI, permission.MatcherType)
		assert.True(t, permission.Action.Valid())
	}
}

// TestBootstrapIdempotent tests that re-running creates no duplicates and
// reports the same count
func TestBootstrapIdempotent(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	first, err := service.Bootstrap(ctx, "first-admin")
	require.NoError(t, err)
	second, err := service.Bootstrap(ctx, "first-admin")
	require.NoError(t, err)
	assert.Equal(t, first.PermissionCount, second.PermissionCount)

	categories, err := store.ListCategories(ctx, CategoryFilter{}.WithName(BaseCategoryName))
	require.NoError(t, err)
	assert.Len(t, categories, 1, "category must not be duplicated")

	count, err := store.CountPermissions(ctx, PermissionFilter{}.WithKeys(BasePermissionKeys()...))
	require.NoError(t, err)
	assert.Equal(t, len(basePermissions), count)
}

// TestBootstrapConvergesAfterPartialRun tests that a partially seeded
// catalog is completed without duplicating existing entries
func TestBootstrapConvergesAfterPartialRun(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	// Simulate a partial prior run: category plus a few permissions.
	category := &PermissionCategory{Name: BaseCategoryName, Kind: KindCustom}
	require.NoError(t, store.CreateCategory(ctx, category))
	for _, base := range basePermissions[:4] {
		require.NoError(t, store.CreatePermission(ctx, &Permission{
			Name:        base.Name,
			Kind:        KindCustom,
			MatcherType: MatcherTypeAPI,
			Matcher:     base.Matcher,
			Action:      base.Action,
			CategoryID:  category.ID,
			Key:         base.Key,
		}))
	}

	result, err := service.Bootstrap(ctx, "first-admin")
	require.NoError(t, err)
	assert.Equal(t, len(basePermissions), result.PermissionCount)

	count, err := store.CountPermissions(ctx, PermissionFilter{}.WithKeys(BasePermissionKeys()...))
	require.NoError(t, err)
	assert.Equal(t, len(basePermissions), count)
}

// TestBootstrapRequiresSuperAdminOnceInitialized tests the privilege
// escalation guard
func TestBootstrapRequiresSuperAdminOnceInitialized(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	super := createTestRole(t, service, "super-admin", true)
	_, err := service.AssignRole(ctx, "the-admin", super.ID)
	require.NoError(t, err)

	// Any other authenticated actor is rejected.
	_, err = service.Bootstrap(ctx, "some-user")
	assert.True(t, IsInvalidState(err))

	// The super admin may still re-run it.
	result, err := service.Bootstrap(ctx, "the-admin")
	require.NoError(t, err)
	assert.True(t, result.Initialized)
}

// TestBootstrapRequiresActor tests that an anonymous bootstrap is rejected
func TestBootstrapRequiresActor(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Bootstrap(context.Background(), "")
	assert.True(t, IsUnauthorized(err))
}
