package permkit

// Page provides skip/take pagination for list queries.
// A zero Take means no limit.
type Page struct {
	Skip int
	Take int
}

// NewPage creates a Page with the given skip and take.
func NewPage(skip, take int) Page {
	return Page{Skip: skip, Take: take}
}

// RoleFilter provides options for filtering role queries.
type RoleFilter struct {
	IDs     []string
	Name    string
	IsSuper *bool

	Page Page
}

// WithIDs sets the role id filter.
func (f RoleFilter) WithIDs(ids ...string) RoleFilter {
	f.IDs = ids
	return f
}

// WithName sets the role name filter.
func (f RoleFilter) WithName(name string) RoleFilter {
	f.Name = name
	return f
}

// WithSuper filters on the super flag.
func (f RoleFilter) WithSuper(isSuper bool) RoleFilter {
	f.IsSuper = &isSuper
	return f
}

// WithPage sets pagination.
func (f RoleFilter) WithPage(skip, take int) RoleFilter {
	f.Page = NewPage(skip, take)
	return f
}

// PermissionFilter provides options for filtering permission queries.
type PermissionFilter struct {
	IDs        []string
	Keys       []string
	Name       string
	CategoryID string
	Action     Action

	Page Page
}

// WithIDs sets the permission id filter.
func (f PermissionFilter) WithIDs(ids ...string) PermissionFilter {
	f.IDs = ids
	return f
}

// WithKeys sets the permission key filter.
func (f PermissionFilter) WithKeys(keys ...string) PermissionFilter {
	f.Keys = keys
	return f
}

// WithName sets the permission name filter.
func (f PermissionFilter) WithName(name string) PermissionFilter {
	f.Name = name
	return f
}

// WithCategory sets the category filter.
func (f PermissionFilter) WithCategory(categoryID string) PermissionFilter {
	f.CategoryID = categoryID
	return f
}

// WithAction sets the action filter.
func (f PermissionFilter) WithAction(action Action) PermissionFilter {
	f.Action = action
	return f
}

// WithPage sets pagination.
func (f PermissionFilter) WithPage(skip, take int) PermissionFilter {
	f.Page = NewPage(skip, take)
	return f
}

// CategoryFilter provides options for filtering permission category queries.
type CategoryFilter struct {
	IDs  []string
	Name string

	Page Page
}

// WithIDs sets the category id filter.
func (f CategoryFilter) WithIDs(ids ...string) CategoryFilter {
	f.IDs = ids
	return f
}

// WithName sets the category name filter.
func (f CategoryFilter) WithName(name string) CategoryFilter {
	f.Name = name
	return f
}

// WithPage sets pagination.
func (f CategoryFilter) WithPage(skip, take int) CategoryFilter {
	f.Page = NewPage(skip, take)
	return f
}

// RolePermissionFilter provides options for filtering direct grants.
type RolePermissionFilter struct {
	RoleIDs      []string
	PermissionID string

	Page Page
}

// WithRoles sets the role id filter.
func (f RolePermissionFilter) WithRoles(roleIDs ...string) RolePermissionFilter {
	f.RoleIDs = roleIDs
	return f
}

// WithPermission sets the permission id filter.
func (f RolePermissionFilter) WithPermission(permissionID string) RolePermissionFilter {
	f.PermissionID = permissionID
	return f
}

// WithPage sets pagination.
func (f RolePermissionFilter) WithPage(skip, take int) RolePermissionFilter {
	f.Page = NewPage(skip, take)
	return f
}

// UserRoleFilter provides options for filtering user role assignments.
type UserRoleFilter struct {
	UserID  string
	RoleIDs []string

	Page Page
}

// WithUser sets the user id filter.
func (f UserRoleFilter) WithUser(userID string) UserRoleFilter {
	f.UserID = userID
	return f
}

// WithRoles sets the role id filter.
func (f UserRoleFilter) WithRoles(roleIDs ...string) UserRoleFilter {
	f.RoleIDs = roleIDs
	return f
}

// WithPage sets pagination.
func (f UserRoleFilter) WithPage(skip, take int) UserRoleFilter {
	f.Page = NewPage(skip, take)
	return f
}

// PolicyFilter provides options for filtering policy queries.
type PolicyFilter struct {
	RoleIDs      []string
	PermissionID string
	Type         PolicyType

	Page Page
}

// WithRoles sets the role id filter.
func (f PolicyFilter) WithRoles(roleIDs ...string) PolicyFilter {
	f.RoleIDs = roleIDs
	return f
}

// WithPermission sets the permission id filter.
func (f PolicyFilter) WithPermission(permissionID string) PolicyFilter {
	f.PermissionID = permissionID
	return f
}

// WithType sets the policy type filter.
func (f PolicyFilter) WithType(policyType PolicyType) PolicyFilter {
	f.Type = policyType
	return f
}

// WithPage sets pagination.
func (f PolicyFilter) WithPage(skip, take int) PolicyFilter {
	f.Page = NewPage(skip, take)
	return f
}
