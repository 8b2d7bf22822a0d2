package permkit

import (
	"context"
)

// Store is the entity store the engine reads from and administrative
// operations write to. Each single-entity write is expected to be atomic;
// the engine never requires multi-entity transactions. Multi-step sequences
// (such as the bootstrap seed) stay safe across partial failures because
// they are idempotent, not because they are transactional.
//
// List operations accept filter criteria and skip/take pagination. Get
// operations return an error wrapping ErrNotFound for missing ids.
type Store interface {
	// Roles
	CreateRole(ctx context.Context, role *Role) error
	GetRole(ctx context.Context, id string) (*Role, error)
	UpdateRole(ctx context.Context, role *Role) error
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error)
	CountRoles(ctx context.Context, filter RoleFilter) (int, error)

	// Permissions
	CreatePermission(ctx context.Context, permission *Permission) error
	GetPermission(ctx context.Context, id string) (*Permission, error)
	UpdatePermission(ctx context.Context, permission *Permission) error
	DeletePermission(ctx context.Context, id string) error
	ListPermissions(ctx context.Context, filter PermissionFilter) ([]Permission, error)
	CountPermissions(ctx context.Context, filter PermissionFilter) (int, error)

	// Permission categories
	CreateCategory(ctx context.Context, category *PermissionCategory) error
	GetCategory(ctx context.Context, id string) (*PermissionCategory, error)
	UpdateCategory(ctx context.Context, category *PermissionCategory) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, filter CategoryFilter) ([]PermissionCategory, error)
	CountCategories(ctx context.Context, filter CategoryFilter) (int, error)

	// Direct grants
	CreateRolePermission(ctx context.Context, grant *RolePermission) error
	DeleteRolePermission(ctx context.Context, id string) error
	ListRolePermissions(ctx context.Context, filter RolePermissionFilter) ([]RolePermission, error)

	// User role assignments. ListUserRoles returns assignments with their
	// Role relation populated.
	CreateUserRole(ctx context.Context, assignment *UserRole) error
	DeleteUserRole(ctx context.Context, id string) error
	ListUserRoles(ctx context.Context, filter UserRoleFilter) ([]UserRole, error)
	CountUserRoles(ctx context.Context, filter UserRoleFilter) (int, error)

	// Policies
	CreatePolicy(ctx context.Context, policy *Policy) error
	DeletePolicy(ctx context.Context, id string) error
	ListPolicies(ctx context.Context, filter PolicyFilter) ([]Policy, error)
}
