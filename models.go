package permkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Action is one of the three fixed verbs a permission can grant.
// There is no action hierarchy: read, write and delete are disjoint.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Actions lists every action, in a stable order.
var Actions = []Action{ActionRead, ActionWrite, ActionDelete}

// Valid reports whether the action is one of the three known verbs.
func (a Action) Valid() bool {
	return a == ActionRead || a == ActionWrite || a == ActionDelete
}

// Kind distinguishes permissions and categories shipped with the engine
// from ones created by administrators.
type Kind string

const (
	KindPredefined Kind = "predefined"
	KindCustom     Kind = "custom"
)

// PolicyType tags a policy as an allow or a deny override.
type PolicyType string

const (
	PolicyAllow PolicyType = "allow"
	PolicyDeny  PolicyType = "deny"
)

// MatcherTypeAPI is the only matcher type currently supported: the matcher
// string is an API route prefix.
const MatcherTypeAPI = "api"

// Permission grants a single action on a resource pattern.
// The Key field is a stable human-readable identifier; the bootstrapper
// uses it to decide whether a base permission already exists.
type Permission struct {
	bun.BaseModel `bun:"table:rbac_permissions,alias:p"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Kind        Kind      `bun:"kind,notnull"`
	MatcherType string    `bun:"matcher_type,notnull"`
	Matcher     string    `bun:"matcher,notnull"`
	Action      Action    `bun:"action,notnull"`
	CategoryID  string    `bun:"category_id"`
	Key         string    `bun:"key,notnull"`
	Method      string    `bun:"method"`
	Path        string    `bun:"path"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Requirement returns the (matcher, action) pair this permission grants.
func (p *Permission) Requirement() Requirement {
	return Requirement{Matcher: p.Matcher, Action: p.Action}
}

// PermissionCategory groups permissions for display purposes.
// Categories have no effect on resolution.
type PermissionCategory struct {
	bun.BaseModel `bun:"table:rbac_permission_categories,alias:pc"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Kind      Kind      `bun:"kind,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Role is a named set of permissions. A role with IsSuper set bypasses
// permission matching entirely: its holders are granted every action on
// every resource, and its grants and policies are never consulted.
type Role struct {
	bun.BaseModel `bun:"table:rbac_roles,alias:r"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	IsSuper     bool      `bun:"is_super,notnull,default:false"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// RolePermission is a direct grant: holding the role implies holding
// the permission.
type RolePermission struct {
	bun.BaseModel `bun:"table:rbac_role_permissions,alias:rp"`

	ID           string    `bun:"id,pk"`
	RoleID       string    `bun:"role_id,notnull"`
	PermissionID string    `bun:"permission_id,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserRole assigns a role to a user. User identity is external and opaque;
// a user may hold zero, one or many roles.
type UserRole struct {
	bun.BaseModel `bun:"table:rbac_user_roles,alias:ur"`

	ID        string    `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	RoleID    string    `bun:"role_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// Populated by joined reads; nil otherwise.
	Role *Role `bun:"rel:belongs-to,join:role_id=id"`
}

// Policy is a role-scoped override on a single permission, evaluated after
// direct grants. A deny removes the permission from the holder's effective
// set regardless of which role granted it.
type Policy struct {
	bun.BaseModel `bun:"table:rbac_policies,alias:pol"`

	ID           string     `bun:"id,pk"`
	RoleID       string     `bun:"role_id,notnull"`
	PermissionID string     `bun:"permission_id,notnull"`
	Type         PolicyType `bun:"type,notnull"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// Requirement is a (matcher, action) pair a caller must be covered for.
type Requirement struct {
	Matcher string `json:"matcher"`
	Action  Action `json:"action"`
}

// EffectivePermissions is the result of resolving a user's roles, grants
// and policy overrides into one final permission set.
//
// When IsSuperAdmin is true, Permissions holds three synthetic wildcard
// entries (one per action) rather than a single entry, because consumers
// key on (matcher, action) pairs.
type EffectivePermissions struct {
	IsSuperAdmin bool         `json:"is_super_admin"`
	RoleIDs      []string     `json:"role_ids"`
	Permissions  []Permission `json:"permissions"`
}

// Covers reports whether the effective set satisfies a single requirement.
// A super admin covers everything.
func (e *EffectivePermissions) Covers(required Requirement) bool {
	if e.IsSuperAdmin {
		return true
	}
	return MatchAnyPermission(e.Permissions, required)
}

// CoversAll reports whether the effective set satisfies every requirement.
// An empty requirement list is always covered.
func (e *EffectivePermissions) CoversAll(required []Requirement) bool {
	for _, req := range required {
		if !e.Covers(req) {
			return false
		}
	}
	return true
}

// superAdminPermissions builds the synthetic all-access permission set
// returned for holders of a super role.
func superAdminPermissions() []Permission {
	perms := make([]Permission, 0, len(Actions))
	for _, action := range Actions {
		perms = append(perms, Permission{
			ID:          "*",
			Name:        "*",
			Key:         "*",
			Kind:        KindPredefined,
			MatcherType: MatcherTypeAPI,
			Matcher:     "*",
			Action:      action,
		})
	}
	return perms
}

// BootstrapResult reports the outcome of seeding the base permission
// catalog. PermissionCount is the total number of base permissions present
// after the run, so callers can tell a no-op from a first seed.
type BootstrapResult struct {
	Initialized     bool `json:"initialized"`
	PermissionCount int  `json:"permission_count"`
}
