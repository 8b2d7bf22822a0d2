package permkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// DatabaseStore is the PostgreSQL Store implementation, backed by dbkit.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Missing rows are translated to
// ErrNotFound; other store failures propagate unchanged so callers can
// classify them with dbkit.IsDuplicate and friends.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	store := permkit.NewDatabaseStore(db)
//	if _, err := db.Migrate(ctx, store.Migrations()); err != nil {
//	    // handle migration failure
//	}
//	service := permkit.NewService(store)
type DatabaseStore struct {
	db dbkit.IDB
}

// NewDatabaseStore creates a Store backed by a dbkit database handle.
func NewDatabaseStore(db dbkit.IDB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// translateNotFound maps dbkit's missing-row classification onto the
// engine's ErrNotFound sentinel.
func translateNotFound(err error, what string) error {
	if err == nil {
		return nil
	}
	if dbkit.IsNotFound(err) {
		return NewError(ErrNotFound, what)
	}
	return err
}

func applyPageQuery(q *bun.SelectQuery, page Page) *bun.SelectQuery {
	if page.Take > 0 {
		q = q.Limit(page.Take)
	}
	if page.Skip > 0 {
		q = q.Offset(page.Skip)
	}
	return q
}

// ============================================================================
// ROLES
// ============================================================================

// CreateRole inserts a role, assigning an id if none is set.
func (s *DatabaseStore) CreateRole(ctx context.Context, role *Role) error {
	if role.ID == "" {
		role.ID = newID()
	}
	result, err := s.db.NewInsert().Model(role).Exec(ctx)
	return dbkit.WithErr(result, err, "CreateRole").Err()
}

// GetRole fetches a role by id.
func (s *DatabaseStore) GetRole(ctx context.Context, id string) (*Role, error) {
	role := new(Role)
	err := dbkit.WithErr1(s.db.NewSelect().Model(role).Where("id = ?", id).Limit(1).Scan(ctx), "GetRole").Err()
	if err != nil {
		return nil, translateNotFound(err, "role "+id)
	}
	return role, nil
}

// UpdateRole updates a role by primary key.
func (s *DatabaseStore) UpdateRole(ctx context.Context, role *Role) error {
	result, err := s.db.NewUpdate().Model(role).WherePK().Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateRole").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role "+role.ID)
	}
	return nil
}

// DeleteRole removes a role by id.
func (s *DatabaseStore) DeleteRole(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*Role)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeleteRole").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role "+id)
	}
	return nil
}

func (s *DatabaseStore) roleQuery(model any, filter RoleFilter) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	if len(filter.IDs) > 0 {
		q = q.Where("id IN (?)", bun.In(filter.IDs))
	}
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.IsSuper != nil {
		q = q.Where("is_super = ?", *filter.IsSuper)
	}
	return q
}

// ListRoles returns roles matching the filter.
func (s *DatabaseStore) ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error) {
	var roles []Role
	q := applyPageQuery(s.roleQuery(&roles, filter).Order("id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListRoles").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// CountRoles returns the number of roles matching the filter.
func (s *DatabaseStore) CountRoles(ctx context.Context, filter RoleFilter) (int, error) {
	count, err := s.roleQuery((*Role)(nil), filter).Count(ctx)
	return count, dbkit.WithErr1(err, "CountRoles").Err()
}

// ============================================================================
// PERMISSIONS
// ============================================================================

// CreatePermission inserts a permission, assigning an id if none is set.
func (s *DatabaseStore) CreatePermission(ctx context.Context, permission *Permission) error {
	if permission.ID == "" {
		permission.ID = newID()
	}
	result, err := s.db.NewInsert().Model(permission).Exec(ctx)
	return dbkit.WithErr(result, err, "CreatePermission").Err()
}

// GetPermission fetches a permission by id.
func (s *DatabaseStore) GetPermission(ctx context.Context, id string) (*Permission, error) {
	permission := new(Permission)
	err := dbkit.WithErr1(s.db.NewSelect().Model(permission).Where("id = ?", id).Limit(1).Scan(ctx), "GetPermission").Err()
	if err != nil {
		return nil, translateNotFound(err, "permission "+id)
	}
	return permission, nil
}

// UpdatePermission updates a permission by primary key.
func (s *DatabaseStore) UpdatePermission(ctx context.Context, permission *Permission) error {
	result, err := s.db.NewUpdate().Model(permission).WherePK().Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdatePermission").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission "+permission.ID)
	}
	return nil
}

// DeletePermission removes a permission by id.
func (s *DatabaseStore) DeletePermission(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*Permission)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeletePermission").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission "+id)
	}
	return nil
}

func (s *DatabaseStore) permissionQuery(model any, filter PermissionFilter) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	if len(filter.IDs) > 0 {
		q = q.Where("id IN (?)", bun.In(filter.IDs))
	}
	if len(filter.Keys) > 0 {
		q = q.Where("key IN (?)", bun.In(filter.Keys))
	}
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	return q
}

// ListPermissions returns permissions matching the filter.
func (s *DatabaseStore) ListPermissions(ctx context.Context, filter PermissionFilter) ([]Permission, error) {
	var permissions []Permission
	q := applyPageQuery(s.permissionQuery(&permissions, filter).Order("id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListPermissions").Err()
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// CountPermissions returns the number of permissions matching the filter.
func (s *DatabaseStore) CountPermissions(ctx context.Context, filter PermissionFilter) (int, error) {
	count, err := s.permissionQuery((*Permission)(nil), filter).Count(ctx)
	return count, dbkit.WithErr1(err, "CountPermissions").Err()
}

// ============================================================================
// PERMISSION CATEGORIES
// ============================================================================

// CreateCategory inserts a category, assigning an id if none is set.
func (s *DatabaseStore) CreateCategory(ctx context.Context, category *PermissionCategory) error {
	if category.ID == "" {
		category.ID = newID()
	}
	result, err := s.db.NewInsert().Model(category).Exec(ctx)
	return dbkit.WithErr(result, err, "CreateCategory").Err()
}

// GetCategory fetches a category by id.
func (s *DatabaseStore) GetCategory(ctx context.Context, id string) (*PermissionCategory, error) {
	category := new(PermissionCategory)
	err := dbkit.WithErr1(s.db.NewSelect().Model(category).Where("id = ?", id).Limit(1).Scan(ctx), "GetCategory").Err()
	if err != nil {
		return nil, translateNotFound(err, "permission category "+id)
	}
	return category, nil
}

// UpdateCategory updates a category by primary key.
func (s *DatabaseStore) UpdateCategory(ctx context.Context, category *PermissionCategory) error {
	result, err := s.db.NewUpdate().Model(category).WherePK().Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateCategory").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission category "+category.ID)
	}
	return nil
}

// DeleteCategory removes a category by id.
func (s *DatabaseStore) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*PermissionCategory)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeleteCategory").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission category "+id)
	}
	return nil
}

func (s *DatabaseStore) categoryQuery(model any, filter CategoryFilter) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	if len(filter.IDs) > 0 {
		q = q.Where("id IN (?)", bun.In(filter.IDs))
	}
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	return q
}

// ListCategories returns categories matching the filter.
func (s *DatabaseStore) ListCategories(ctx context.Context, filter CategoryFilter) ([]PermissionCategory, error) {
	var categories []PermissionCategory
	q := applyPageQuery(s.categoryQuery(&categories, filter).Order("id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListCategories").Err()
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CountCategories returns the number of categories matching the filter.
func (s *DatabaseStore) CountCategories(ctx context.Context, filter CategoryFilter) (int, error) {
	count, err := s.categoryQuery((*PermissionCategory)(nil), filter).Count(ctx)
	return count, dbkit.WithErr1(err, "CountCategories").Err()
}

// ============================================================================
// DIRECT GRANTS
// ============================================================================

// CreateRolePermission inserts a direct grant, assigning an id if none is set.
func (s *DatabaseStore) CreateRolePermission(ctx context.Context, grant *RolePermission) error {
	if grant.ID == "" {
		grant.ID = newID()
	}
	result, err := s.db.NewInsert().Model(grant).Exec(ctx)
	return dbkit.WithErr(result, err, "CreateRolePermission").Err()
}

// DeleteRolePermission removes a direct grant by id.
func (s *DatabaseStore) DeleteRolePermission(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*RolePermission)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeleteRolePermission").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role permission "+id)
	}
	return nil
}

// ListRolePermissions returns direct grants matching the filter.
func (s *DatabaseStore) ListRolePermissions(ctx context.Context, filter RolePermissionFilter) ([]RolePermission, error) {
	var grants []RolePermission
	q := s.db.NewSelect().Model(&grants)
	if len(filter.RoleIDs) > 0 {
		q = q.Where("role_id IN (?)", bun.In(filter.RoleIDs))
	}
	if filter.PermissionID != "" {
		q = q.Where("permission_id = ?", filter.PermissionID)
	}
	q = applyPageQuery(q.Order("id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListRolePermissions").Err()
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// ============================================================================
// USER ROLE ASSIGNMENTS
// ============================================================================

// CreateUserRole inserts an assignment, assigning an id if none is set.
func (s *DatabaseStore) CreateUserRole(ctx context.Context, assignment *UserRole) error {
	if assignment.ID == "" {
		assignment.ID = newID()
	}
	result, err := s.db.NewInsert().Model(assignment).Exec(ctx)
	return dbkit.WithErr(result, err, "CreateUserRole").Err()
}

// DeleteUserRole removes an assignment by id.
func (s *DatabaseStore) DeleteUserRole(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*UserRole)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeleteUserRole").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "user role "+id)
	}
	return nil
}

func (s *DatabaseStore) userRoleQuery(model any, filter UserRoleFilter) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	if filter.UserID != "" {
		q = q.Where("ur.user_id = ?", filter.UserID)
	}
	if len(filter.RoleIDs) > 0 {
		q = q.Where("ur.role_id IN (?)", bun.In(filter.RoleIDs))
	}
	return q
}

// ListUserRoles returns assignments matching the filter, with the Role
// relation populated.
func (s *DatabaseStore) ListUserRoles(ctx context.Context, filter UserRoleFilter) ([]UserRole, error) {
	var assignments []UserRole
	q := applyPageQuery(s.userRoleQuery(&assignments, filter).Relation("Role").Order("ur.id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListUserRoles").Err()
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountUserRoles returns the number of assignments matching the filter.
func (s *DatabaseStore) CountUserRoles(ctx context.Context, filter UserRoleFilter) (int, error) {
	count, err := s.userRoleQuery((*UserRole)(nil), filter).Count(ctx)
	return count, dbkit.WithErr1(err, "CountUserRoles").Err()
}

// ============================================================================
// POLICIES
// ============================================================================

// CreatePolicy inserts a policy, assigning an id if none is set.
func (s *DatabaseStore) CreatePolicy(ctx context.Context, policy *Policy) error {
	if policy.ID == "" {
		policy.ID = newID()
	}
	result, err := s.db.NewInsert().Model(policy).Exec(ctx)
	return dbkit.WithErr(result, err, "CreatePolicy").Err()
}

// DeletePolicy removes a policy by id.
func (s *DatabaseStore) DeletePolicy(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().Model((*Policy)(nil)).Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "DeletePolicy").Err(); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "policy "+id)
	}
	return nil
}

// ListPolicies returns policies matching the filter.
func (s *DatabaseStore) ListPolicies(ctx context.Context, filter PolicyFilter) ([]Policy, error) {
	var policies []Policy
	q := s.db.NewSelect().Model(&policies)
	if len(filter.RoleIDs) > 0 {
		q = q.Where("role_id IN (?)", bun.In(filter.RoleIDs))
	}
	if filter.PermissionID != "" {
		q = q.Where("permission_id = ?", filter.PermissionID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	q = applyPageQuery(q.Order("id"), filter.Page)
	err := dbkit.WithErr1(q.Scan(ctx), "ListPolicies").Err()
	if err != nil {
		return nil, err
	}
	return policies, nil
}
