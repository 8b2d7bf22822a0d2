// Package permkit provides a role-based access-control engine for gating
// administrative operations behind permission checks.
//
// PermKit decides, for a given actor, which actions on which resources are
// permitted. It resolves role assignments, direct role-to-permission
// grants and per-role allow/deny overrides into one effective permission
// set, and answers point-in-time "is this allowed?" queries against it.
//
// # Core Concepts
//
// Permission: a (matcher, action) pair. The matcher is a resource-pattern
// string (typically an API route prefix such as "/admin/rbac/roles") and
// the action is one of three disjoint verbs: read, write, delete.
//
// Role: a named set of permissions. A role with IsSuper set bypasses
// matching entirely; its holders are granted every action on every
// resource, unconditionally.
//
// Grant: a direct Role→Permission association (RolePermission). Holding
// the role implies holding the permission.
//
// Policy: a role-scoped allow/deny override on a single permission,
// evaluated after grants. Deny always wins: a deny from any of an actor's
// roles removes the permission even if another held role grants it.
//
// Requirement: the (matcher, action) pair a route requires. A request
// passes when every requirement is covered by at least one effective
// permission.
//
// # Matching
//
// A granted matcher of "*" covers everything. Otherwise matchers are
// trimmed, lower-cased and compared: exact equality covers, and so does a
// literal prefix (a grant on "/admin/rbac" covers "/admin/rbac/roles").
// The prefix test is not path-segment aware; see Matcher for details.
//
// # Basic Usage
//
//	// 1. Create a store and the service
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	store := permkit.NewDatabaseStore(db)
//	service := permkit.NewService(store)
//
//	// 2. Run migrations and seed the base catalog
//	db.Migrate(ctx, store.Migrations())
//	service.Bootstrap(ctx, adminID)
//
//	// 3. Create roles, grants and assignments
//	role := &permkit.Role{Name: "catalog-editor"}
//	service.CreateRole(ctx, role)
//	service.GrantPermission(ctx, role.ID, permissionID)
//	service.AssignRole(ctx, userID, role.ID)
//
//	// 4. Gate privileged operations
//	err := service.Authorize(ctx, userID, []permkit.Requirement{
//	    {Matcher: "/admin/products", Action: permkit.ActionWrite},
//	})
//	if permkit.IsForbidden(err) {
//	    // deny; permkit.RequiredPermissions(err) lists what was missing
//	}
//
// # Middleware Usage
//
//	mw := permkit.NewMiddleware(service)
//
//	router.With(mw.RequirePermissions(
//	    permkit.Requirement{Matcher: "/admin/rbac/roles", Action: permkit.ActionWrite},
//	)).Post("/admin/rbac/roles", createRoleHandler)
//
// # Initialization
//
// Until the first role assignment exists anywhere, every request is
// allowed. This is the bootstrap escape hatch: it lets the very first
// super-admin role be created without locking everyone out. The check is
// recomputed from the store on every call, so the gate closes the moment
// the first assignment lands.
//
// # Stores
//
// Two Store implementations ship with the engine: MemoryStore, an
// in-process arena-table store for tests and embedded use, and
// DatabaseStore, a PostgreSQL store built on dbkit with migrations and
// health checks.
package permkit
