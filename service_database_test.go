package permkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniqueID builds an identifier that will not collide across test runs
// against a persistent database.
func uniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// TestDatabaseRoleLifecycle tests role CRUD against a real database
func TestDatabaseRoleLifecycle(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	role := &Role{Name: uniqueID("db-role"), Description: "created by test"}
	require.NoError(t, service.CreateRole(ctx, role))
	require.NotEmpty(t, role.ID)

	fetched, err := service.Store().GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Name, fetched.Name)

	fetched.Description = "updated by test"
	require.NoError(t, service.UpdateRole(ctx, fetched))

	again, err := service.Store().GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated by test", again.Description)

	require.NoError(t, service.DeleteRole(ctx, role.ID))

	_, err = service.Store().GetRole(ctx, role.ID)
	assert.True(t, IsNotFound(err))
}

// TestDatabaseResolution tests the full grant/deny resolution path against
// a real database
func TestDatabaseResolution(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	role := &Role{Name: uniqueID("db-editor")}
	require.NoError(t, service.CreateRole(ctx, role))

	readPerm := &Permission{
		Name:        "db products read",
		Key:         uniqueID("db.products.read"),
		Kind:        KindCustom,
		MatcherType: MatcherTypeAPI,
		Matcher:     "/admin/db-products",
		Action:      ActionRead,
	}
	require.NoError(t, service.Store().CreatePermission(ctx, readPerm))

	writePerm := &Permission{
		Name:        "db products write",
		Key:         uniqueID("db.products.write"),
		Kind:        KindCustom,
		MatcherType: MatcherTypeAPI,
		Matcher:     "/admin/db-products",
		Action:      ActionWrite,
	}
	require.NoError(t, service.Store().CreatePermission(ctx, writePerm))

	_, err = service.GrantPermission(ctx, role.ID, readPerm.ID)
	require.NoError(t, err)
	_, err = service.GrantPermission(ctx, role.ID, writePerm.ID)
	require.NoError(t, err)
	_, err = service.SetPolicy(ctx, role.ID, writePerm.ID, PolicyDeny)
	require.NoError(t, err)

	userID := uniqueID("db-user")
	_, err = service.AssignRole(ctx, userID, role.ID)
	require.NoError(t, err)

	effective, err := service.EffectivePermissions(ctx, userID)
	require.NoError(t, err)
	assert.False(t, effective.IsSuperAdmin)
	assert.True(t, effective.Covers(Requirement{Matcher: "/admin/db-products", Action: ActionRead}))
	assert.False(t, effective.Covers(Requirement{Matcher: "/admin/db-products", Action: ActionWrite}))
}

// TestDatabaseUserRoleJoin tests that assignment listing populates the
// role relation
func TestDatabaseUserRoleJoin(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	role := &Role{Name: uniqueID("db-joined")}
	require.NoError(t, service.CreateRole(ctx, role))

	userID := uniqueID("db-join-user")
	_, err = service.AssignRole(ctx, userID, role.ID)
	require.NoError(t, err)

	assignments, err := service.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.NotNil(t, assignments[0].Role)
	assert.Equal(t, role.Name, assignments[0].Role.Name)
}

// TestDatabaseBootstrap tests catalog seeding against a real database
func TestDatabaseBootstrap(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	// A prior test run may have left the system initialized, so run the
	// bootstrap as a super admin; that path is valid in both states.
	super := &Role{Name: uniqueID("db-super"), IsSuper: true}
	require.NoError(t, service.CreateRole(ctx, super))
	actorID := uniqueID("db-bootstrapper")
	_, err = service.AssignRole(ctx, actorID, super.ID)
	require.NoError(t, err)

	result, err := service.Bootstrap(ctx, actorID)
	require.NoError(t, err)
	assert.Equal(t, len(BasePermissionKeys()), result.PermissionCount)

	// Second run converges without duplicating anything.
	result, err = service.Bootstrap(ctx, actorID)
	require.NoError(t, err)
	assert.Equal(t, len(BasePermissionKeys()), result.PermissionCount)

	perms, err := service.Store().ListPermissions(ctx,
		PermissionFilter{}.WithKeys(BasePermissionKeys()...))
	require.NoError(t, err)
	assert.Len(t, perms, len(BasePermissionKeys()))
}

// TestDatabasePagination tests skip/take translation to SQL
func TestDatabasePagination(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	marker := uniqueID("db-page")
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		role := &Role{Name: fmt.Sprintf("%s-%d", marker, i)}
		require.NoError(t, service.CreateRole(ctx, role))
		ids = append(ids, role.ID)
	}

	first, err := service.Store().ListRoles(ctx, RoleFilter{}.WithIDs(ids...).WithPage(0, 2))
	require.NoError(t, err)
	assert.Len(t, first, 2)

	rest, err := service.Store().ListRoles(ctx, RoleFilter{}.WithIDs(ids...).WithPage(2, 10))
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	count, err := service.Store().CountRoles(ctx, RoleFilter{}.WithIDs(ids...).WithPage(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
