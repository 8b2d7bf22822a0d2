package permkit

import (
	"context"
)

// BaseCategoryName is the name of the well-known category the base
// permission catalog belongs to. Bootstrap looks the category up by name
// and creates it only once.
const BaseCategoryName = "RBAC"

type basePermission struct {
	Key     string
	Name    string
	Matcher string
	Action  Action
}

// basePermissions is the fixed base catalog seeded by Bootstrap. Entries
// are keyed by Key; re-running bootstrap inserts only the keys that are
// missing, so partial prior runs converge to the full set without
// duplicates.
var basePermissions = []basePermission{
	{Key: "rbac.roles.read", Name: "Read roles", Matcher: "/admin/rbac/roles", Action: ActionRead},
	{Key: "rbac.roles.write", Name: "Write roles", Matcher: "/admin/rbac/roles", Action: ActionWrite},
	{Key: "rbac.roles.delete", Name: "Delete roles", Matcher: "/admin/rbac/roles", Action: ActionDelete},
	{Key: "rbac.permissions.read", Name: "Read permissions", Matcher: "/admin/rbac/permissions", Action: ActionRead},
	{Key: "rbac.permissions.write", Name: "Write permissions", Matcher: "/admin/rbac/permissions", Action: ActionWrite},
	{Key: "rbac.permissions.delete", Name: "Delete permissions", Matcher: "/admin/rbac/permissions", Action: ActionDelete},
	{Key: "rbac.users.read", Name: "Read user roles", Matcher: "/admin/rbac/users", Action: ActionRead},
	{Key: "rbac.users.write", Name: "Write user roles", Matcher: "/admin/rbac/users", Action: ActionWrite},
	{Key: "rbac.users.delete", Name: "Delete user roles", Matcher: "/admin/rbac/users", Action: ActionDelete},
	{Key: "rbac.permission-categories.read", Name: "Read permission categories", Matcher: "/admin/rbac/permission-categories", Action: ActionRead},
	{Key: "rbac.permission-categories.write", Name: "Write permission categories", Matcher: "/admin/rbac/permission-categories", Action: ActionWrite},
	{Key: "rbac.permission-categories.delete", Name: "Delete permission categories", Matcher: "/admin/rbac/permission-categories", Action: ActionDelete},
	{Key: "rbac.policies.read", Name: "Read policies", Matcher: "/admin/rbac/policies", Action: ActionRead},
	{Key: "rbac.policies.write", Name: "Write policies", Matcher: "/admin/rbac/policies", Action: ActionWrite},
	{Key: "rbac.policies.delete", Name: "Delete policies", Matcher: "/admin/rbac/policies", Action: ActionDelete},
}

// BasePermissionKeys returns the keys of the base permission catalog.
func BasePermissionKeys() []string {
	keys := make([]string, 0, len(basePermissions))
	for _, p := range basePermissions {
		keys = append(keys, p.Key)
	}
	return keys
}

// Bootstrap seeds the base permission catalog. It is idempotent: the
// well-known category is created once and found by name thereafter, and
// only permissions whose key is not already present are inserted. The
// seeding is not transactional; re-running after a partial failure
// converges to the full base set precisely because inserts are keyed.
//
// While the system is uninitialized any authenticated actor may run
// Bootstrap (that is how the first super admin gets set up). Once a user
// role exists, only a super admin may re-run it.
func (s *Service) Bootstrap(ctx context.Context, actorID string) (*BootstrapResult, error) {
	if actorID == "" {
		return nil, NewError(ErrUnauthorized, "no actor identity")
	}

	initialized, err := s.IsInitialized(ctx)
	if err != nil {
		return nil, err
	}
	if initialized {
		isSuper, err := s.IsSuperAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !isSuper {
			return nil, NewError(ErrInvalidState, "bootstrap requires a super admin once initialized").
				WithActor(actorID)
		}
	}

	category, err := s.baseCategory(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListPermissions(ctx, PermissionFilter{}.WithKeys(BasePermissionKeys()...))
	if err != nil {
		return nil, err
	}
	existingKeys := make(map[string]struct{}, len(existing))
	for _, permission := range existing {
		existingKeys[permission.Key] = struct{}{}
	}

	created := 0
	for _, base := range basePermissions {
		if _, ok := existingKeys[base.Key]; ok {
			continue
		}
		permission := &Permission{
			Name:        base.Name,
			Description: base.Name,
			Kind:        KindCustom,
			MatcherType: MatcherTypeAPI,
			Matcher:     base.Matcher,
			Action:      base.Action,
			CategoryID:  category.ID,
			Key:         base.Key,
			Path:        base.Matcher,
		}
		if err := s.store.CreatePermission(ctx, permission); err != nil {
			return nil, err
		}
		created++
	}

	return &BootstrapResult{
		Initialized:     true,
		PermissionCount: len(existing) + created,
	}, nil
}

// baseCategory finds the well-known category by name, creating it on first
// use.
func (s *Service) baseCategory(ctx context.Context) (*PermissionCategory, error) {
	categories, err := s.store.ListCategories(ctx, CategoryFilter{}.WithName(BaseCategoryName))
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return &categories[0], nil
	}

	category := &PermissionCategory{Name: BaseCategoryName, Kind: KindCustom}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
