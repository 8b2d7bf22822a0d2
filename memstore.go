package permkit

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. Entities live in
// id-keyed tables with secondary indices by role id, user id and permission
// id, so there are no object graphs and no cyclic references.
//
// MemoryStore is safe for concurrent use. It is intended for tests and for
// embedded deployments that do not need durability.
type MemoryStore struct {
	mu sync.RWMutex

	roles       map[string]Role
	permissions map[string]Permission
	categories  map[string]PermissionCategory
	grants      map[string]RolePermission
	assignments map[string]UserRole
	policies    map[string]Policy

	// Secondary indices: owner id -> record ids.
	grantsByRole      map[string]map[string]struct{}
	assignmentsByUser map[string]map[string]struct{}
	policiesByRole    map[string]map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roles:             make(map[string]Role),
		permissions:       make(map[string]Permission),
		categories:        make(map[string]PermissionCategory),
		grants:            make(map[string]RolePermission),
		assignments:       make(map[string]UserRole),
		policies:          make(map[string]Policy),
		grantsByRole:      make(map[string]map[string]struct{}),
		assignmentsByUser: make(map[string]map[string]struct{}),
		policiesByRole:    make(map[string]map[string]struct{}),
	}
}

func newID() string {
	return uuid.NewString()
}

func indexAdd(index map[string]map[string]struct{}, key, id string) {
	ids, ok := index[key]
	if !ok {
		ids = make(map[string]struct{})
		index[key] = ids
	}
	ids[id] = struct{}{}
}

func indexRemove(index map[string]map[string]struct{}, key, id string) {
	if ids, ok := index[key]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(index, key)
		}
	}
}

// applyPage slices a result set according to skip/take pagination.
func applyPage[T any](items []T, page Page) []T {
	if page.Skip > 0 {
		if page.Skip >= len(items) {
			return nil
		}
		items = items[page.Skip:]
	}
	if page.Take > 0 && page.Take < len(items) {
		items = items[:page.Take]
	}
	return items
}

// sortByID gives list results a stable order so pagination is deterministic.
func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// ============================================================================
// ROLES
// ============================================================================

// CreateRole stores a new role, assigning an id if none is set.
func (s *MemoryStore) CreateRole(ctx context.Context, role *Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role.ID == "" {
		role.ID = newID()
	}
	s.roles[role.ID] = *role
	return nil
}

// GetRole returns a role by id.
func (s *MemoryStore) GetRole(ctx context.Context, id string) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[id]
	if !ok {
		return nil, NewError(ErrNotFound, "role "+id)
	}
	return &role, nil
}

// UpdateRole replaces a stored role.
func (s *MemoryStore) UpdateRole(ctx context.Context, role *Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return NewError(ErrNotFound, "role "+role.ID)
	}
	s.roles[role.ID] = *role
	return nil
}

// DeleteRole removes a role by id.
func (s *MemoryStore) DeleteRole(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return NewError(ErrNotFound, "role "+id)
	}
	delete(s.roles, id)
	return nil
}

func (s *MemoryStore) listRolesLocked(filter RoleFilter) []Role {
	var out []Role
	for _, role := range s.roles {
		if len(filter.IDs) > 0 && !contains(filter.IDs, role.ID) {
			continue
		}
		if filter.Name != "" && role.Name != filter.Name {
			continue
		}
		if filter.IsSuper != nil && role.IsSuper != *filter.IsSuper {
			continue
		}
		out = append(out, role)
	}
	sortByID(out, func(r Role) string { return r.ID })
	return out
}

// ListRoles returns roles matching the filter.
func (s *MemoryStore) ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyPage(s.listRolesLocked(filter), filter.Page), nil
}

// CountRoles returns the number of roles matching the filter, ignoring
// pagination.
func (s *MemoryStore) CountRoles(ctx context.Context, filter RoleFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listRolesLocked(filter)), nil
}

// ============================================================================
// PERMISSIONS
// ============================================================================

// CreatePermission stores a new permission, assigning an id if none is set.
func (s *MemoryStore) CreatePermission(ctx context.Context, permission *Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if permission.ID == "" {
		permission.ID = newID()
	}
	s.permissions[permission.ID] = *permission
	return nil
}

// GetPermission returns a permission by id.
func (s *MemoryStore) GetPermission(ctx context.Context, id string) (*Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permission, ok := s.permissions[id]
	if !ok {
		return nil, NewError(ErrNotFound, "permission "+id)
	}
	return &permission, nil
}

// UpdatePermission replaces a stored permission.
func (s *MemoryStore) UpdatePermission(ctx context.Context, permission *Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.permissions[permission.ID]; !ok {
		return NewError(ErrNotFound, "permission "+permission.ID)
	}
	s.permissions[permission.ID] = *permission
	return nil
}

// DeletePermission removes a permission by id.
func (s *MemoryStore) DeletePermission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.permissions[id]; !ok {
		return NewError(ErrNotFound, "permission "+id)
	}
	delete(s.permissions, id)
	return nil
}

func (s *MemoryStore) listPermissionsLocked(filter PermissionFilter) []Permission {
	var out []Permission
	for _, permission := range s.permissions {
		if len(filter.IDs) > 0 && !contains(filter.IDs, permission.ID) {
			continue
		}
		if len(filter.Keys) > 0 && !contains(filter.Keys, permission.Key) {
			continue
		}
		if filter.Name != "" && permission.Name != filter.Name {
			continue
		}
		if filter.CategoryID != "" && permission.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Action != "" && permission.Action != filter.Action {
			continue
		}
		out = append(out, permission)
	}
	sortByID(out, func(p Permission) string { return p.ID })
	return out
}

// ListPermissions returns permissions matching the filter.
func (s *MemoryStore) ListPermissions(ctx context.Context, filter PermissionFilter) ([]Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyPage(s.listPermissionsLocked(filter), filter.Page), nil
}

// CountPermissions returns the number of permissions matching the filter,
// ignoring pagination.
func (s *MemoryStore) CountPermissions(ctx context.Context, filter PermissionFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listPermissionsLocked(filter)), nil
}

// ============================================================================
// PERMISSION CATEGORIES
// ============================================================================

// CreateCategory stores a new category, assigning an id if none is set.
func (s *MemoryStore) CreateCategory(ctx context.Context, category *PermissionCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" {
		category.ID = newID()
	}
	s.categories[category.ID] = *category
	return nil
}

// GetCategory returns a category by id.
func (s *MemoryStore) GetCategory(ctx context.Context, id string) (*PermissionCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, NewError(ErrNotFound, "permission category "+id)
	}
	return &category, nil
}

// UpdateCategory replaces a stored category.
func (s *MemoryStore) UpdateCategory(ctx context.Context, category *PermissionCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return NewError(ErrNotFound, "permission category "+category.ID)
	}
	s.categories[category.ID] = *category
	return nil
}

// DeleteCategory removes a category by id.
func (s *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return NewError(ErrNotFound, "permission category "+id)
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) listCategoriesLocked(filter CategoryFilter) []PermissionCategory {
	var out []PermissionCategory
	for _, category := range s.categories {
		if len(filter.IDs) > 0 && !contains(filter.IDs, category.ID) {
			continue
		}
		if filter.Name != "" && category.Name != filter.Name {
			continue
		}
		out = append(out, category)
	}
	sortByID(out, func(c PermissionCategory) string { return c.ID })
	return out
}

// ListCategories returns categories matching the filter.
func (s *MemoryStore) ListCategories(ctx context.Context, filter CategoryFilter) ([]PermissionCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyPage(s.listCategoriesLocked(filter), filter.Page), nil
}

// CountCategories returns the number of categories matching the filter,
// ignoring pagination.
func (s *MemoryStore) CountCategories(ctx context.Context, filter CategoryFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listCategoriesLocked(filter)), nil
}

// ============================================================================
// DIRECT GRANTS
// ============================================================================

// CreateRolePermission stores a direct grant, assigning an id if none is set.
func (s *MemoryStore) CreateRolePermission(ctx context.Context, grant *RolePermission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if grant.ID == "" {
		grant.ID = newID()
	}
	s.grants[grant.ID] = *grant
	indexAdd(s.grantsByRole, grant.RoleID, grant.ID)
	return nil
}

// DeleteRolePermission removes a direct grant by id.
func (s *MemoryStore) DeleteRolePermission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.grants[id]
	if !ok {
		return NewError(ErrNotFound, "role permission "+id)
	}
	delete(s.grants, id)
	indexRemove(s.grantsByRole, grant.RoleID, id)
	return nil
}

// ListRolePermissions returns direct grants matching the filter. When the
// filter names role ids the secondary index is consulted instead of a full
// table scan.
func (s *MemoryStore) ListRolePermissions(ctx context.Context, filter RolePermissionFilter) ([]RolePermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RolePermission
	appendMatch := func(grant RolePermission) {
		if filter.PermissionID != "" && grant.PermissionID != filter.PermissionID {
			return
		}
		out = append(out, grant)
	}

	if len(filter.RoleIDs) > 0 {
		for _, roleID := range filter.RoleIDs {
			for id := range s.grantsByRole[roleID] {
				appendMatch(s.grants[id])
			}
		}
	} else {
		for _, grant := range s.grants {
			appendMatch(grant)
		}
	}
	sortByID(out, func(g RolePermission) string { return g.ID })
	return applyPage(out, filter.Page), nil
}

// ============================================================================
// USER ROLE ASSIGNMENTS
// ============================================================================

// CreateUserRole stores an assignment, assigning an id if none is set.
func (s *MemoryStore) CreateUserRole(ctx context.Context, assignment *UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if assignment.ID == "" {
		assignment.ID = newID()
	}
	stored := *assignment
	stored.Role = nil // relation is resolved on read
	s.assignments[stored.ID] = stored
	indexAdd(s.assignmentsByUser, stored.UserID, stored.ID)
	return nil
}

// DeleteUserRole removes an assignment by id.
func (s *MemoryStore) DeleteUserRole(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[id]
	if !ok {
		return NewError(ErrNotFound, "user role "+id)
	}
	delete(s.assignments, id)
	indexRemove(s.assignmentsByUser, assignment.UserID, id)
	return nil
}

func (s *MemoryStore) listUserRolesLocked(filter UserRoleFilter) []UserRole {
	var out []UserRole
	appendMatch := func(assignment UserRole) {
		if len(filter.RoleIDs) > 0 && !contains(filter.RoleIDs, assignment.RoleID) {
			return
		}
		if role, ok := s.roles[assignment.RoleID]; ok {
			r := role
			assignment.Role = &r
		}
		out = append(out, assignment)
	}

	if filter.UserID != "" {
		for id := range s.assignmentsByUser[filter.UserID] {
			appendMatch(s.assignments[id])
		}
	} else {
		for _, assignment := range s.assignments {
			appendMatch(assignment)
		}
	}
	sortByID(out, func(a UserRole) string { return a.ID })
	return out
}

// ListUserRoles returns assignments matching the filter, with the Role
// relation populated.
func (s *MemoryStore) ListUserRoles(ctx context.Context, filter UserRoleFilter) ([]UserRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return applyPage(s.listUserRolesLocked(filter), filter.Page), nil
}

// CountUserRoles returns the number of assignments matching the filter,
// ignoring pagination.
func (s *MemoryStore) CountUserRoles(ctx context.Context, filter UserRoleFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listUserRolesLocked(filter)), nil
}

// ============================================================================
// POLICIES
// ============================================================================

// CreatePolicy stores a policy, assigning an id if none is set.
func (s *MemoryStore) CreatePolicy(ctx context.Context, policy *Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if policy.ID == "" {
		policy.ID = newID()
	}
	s.policies[policy.ID] = *policy
	indexAdd(s.policiesByRole, policy.RoleID, policy.ID)
	return nil
}

// DeletePolicy removes a policy by id.
func (s *MemoryStore) DeletePolicy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	policy, ok := s.policies[id]
	if !ok {
		return NewError(ErrNotFound, "policy "+id)
	}
	delete(s.policies, id)
	indexRemove(s.policiesByRole, policy.RoleID, id)
	return nil
}

// ListPolicies returns policies matching the filter.
func (s *MemoryStore) ListPolicies(ctx context.Context, filter PolicyFilter) ([]Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Policy
	appendMatch := func(policy Policy) {
		if filter.PermissionID != "" && policy.PermissionID != filter.PermissionID {
			return
		}
		if filter.Type != "" && policy.Type != filter.Type {
			return
		}
		out = append(out, policy)
	}

	if len(filter.RoleIDs) > 0 {
		for _, roleID := range filter.RoleIDs {
			for id := range s.policiesByRole[roleID] {
				appendMatch(s.policies[id])
			}
		}
	} else {
		for _, policy := range s.policies {
			appendMatch(policy)
		}
	}
	sortByID(out, func(p Policy) string { return p.ID })
	return applyPage(out, filter.Page), nil
}
