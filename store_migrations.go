package permkit

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required by the DatabaseStore.
// Use db.Migrate(ctx, store.Migrations()) to run them.
func (s *DatabaseStore) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "permkit-001",
			Description: "Create rbac_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_roles (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    description TEXT,
                    is_super BOOLEAN NOT NULL DEFAULT FALSE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-002",
			Description: "Create rbac_permission_categories table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_permission_categories (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    kind TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-003",
			Description: "Create rbac_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_permissions (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    description TEXT,
                    kind TEXT NOT NULL,
                    matcher_type TEXT NOT NULL,
                    matcher TEXT NOT NULL,
                    action TEXT NOT NULL,
                    category_id TEXT,
                    key TEXT NOT NULL,
                    method TEXT,
                    path TEXT,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-004",
			Description: "Create rbac_role_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_role_permissions (
                    id TEXT PRIMARY KEY,
                    role_id TEXT NOT NULL,
                    permission_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-005",
			Description: "Create rbac_user_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_user_roles (
                    id TEXT PRIMARY KEY,
                    user_id TEXT NOT NULL,
                    role_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-006",
			Description: "Create rbac_policies table",
			SQL: `
                CREATE TABLE IF NOT EXISTS rbac_policies (
                    id TEXT PRIMARY KEY,
                    role_id TEXT NOT NULL,
                    permission_id TEXT NOT NULL,
                    type TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "permkit-007",
			Description: "Create secondary indices for resolution reads",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_rbac_user_roles_user ON rbac_user_roles (user_id);
                CREATE INDEX IF NOT EXISTS idx_rbac_role_permissions_role ON rbac_role_permissions (role_id);
                CREATE INDEX IF NOT EXISTS idx_rbac_policies_role ON rbac_policies (role_id);
                CREATE INDEX IF NOT EXISTS idx_rbac_permissions_key ON rbac_permissions (key)`,
		},
	}
}
