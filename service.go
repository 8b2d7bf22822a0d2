package permkit

import (
	"context"
)

// Service is the authorization engine: it resolves a user's role
// assignments, direct grants and policy overrides into an effective
// permission set, and answers point-in-time authorization queries.
//
// The service is stateless between calls and holds no caches: every
// resolution re-reads the store, so a concurrent grant or revoke is visible
// on the next call ("read committed" from the caller's perspective). It
// never mutates state on the resolution path and takes no locks of its own.
//
// Example:
//
//	store := permkit.NewMemoryStore()
//	service := permkit.NewService(store)
//
//	err := service.Authorize(ctx, userID, []permkit.Requirement{
//	    {Matcher: "/admin/products", Action: permkit.ActionWrite},
//	})
//	if permkit.IsForbidden(err) {
//	    // surface permkit.RequiredPermissions(err) to the client
//	}
type Service struct {
	store   Store
	matcher *Matcher
}

// NewService creates a new authorization service on top of an entity store.
func NewService(store Store) *Service {
	return &Service{
		store:   store,
		matcher: DefaultMatcher,
	}
}

// Store returns the underlying entity store.
func (s *Service) Store() Store {
	return s.store
}

// IsInitialized reports whether any user has ever been assigned a role.
// Before that point the system is considered uninitialized and the gate
// allows every request, so the very first super-admin role can be created
// without being locked out.
//
// The check is recomputed from the store on every call rather than cached,
// to avoid stale-state false negatives right after the first assignment is
// created (or across process restarts and multiple instances).
func (s *Service) IsInitialized(ctx context.Context) (bool, error) {
	count, err := s.store.CountUserRoles(ctx, UserRoleFilter{})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserRoles retrieves all role assignments for a user, with each
// assignment's Role relation populated. A user with no assignments yields
// an empty slice, not an error.
func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]UserRole, error) {
	return s.store.ListUserRoles(ctx, UserRoleFilter{}.WithUser(userID))
}

// IsSuperAdmin reports whether any of the user's assigned roles is a super
// role.
func (s *Service) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	assignments, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, assignment := range assignments {
		if assignment.Role != nil && assignment.Role.IsSuper {
			return true, nil
		}
	}
	return false, nil
}

// EffectivePermissions computes the user's effective permission set.
//
// Holders of a super role short-circuit: the result is tagged IsSuperAdmin
// with a synthetic all-access permission set, and the role's grants and
// policies are never consulted.
//
// Otherwise the effective permission id set is (grants ∪ allows) \ denies,
// where grants come from RolePermission rows and allows/denies from Policy
// rows across ALL of the user's roles. A deny from any held role removes
// the permission even if another held role's direct grant would otherwise
// allow it: deny is unconditionally final.
func (s *Service) EffectivePermissions(ctx context.Context, userID string) (*EffectivePermissions, error) {
	assignments, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleIDs := make([]string, 0, len(assignments))
	isSuperAdmin := false
	for _, assignment := range assignments {
		if assignment.RoleID != "" {
			roleIDs = append(roleIDs, assignment.RoleID)
		}
		if assignment.Role != nil && assignment.Role.IsSuper {
			isSuperAdmin = true
		}
	}

	if isSuperAdmin {
		return &EffectivePermissions{
			IsSuperAdmin: true,
			RoleIDs:      roleIDs,
			Permissions:  superAdminPermissions(),
		}, nil
	}

	if len(roleIDs) == 0 {
		return &EffectivePermissions{RoleIDs: []string{}, Permissions: []Permission{}}, nil
	}

	grants, err := s.store.ListRolePermissions(ctx, RolePermissionFilter{}.WithRoles(roleIDs...))
	if err != nil {
		return nil, err
	}

	granted := make(map[string]struct{}, len(grants))
	for _, grant := range grants {
		if grant.PermissionID != "" {
			granted[grant.PermissionID] = struct{}{}
		}
	}

	policies, err := s.store.ListPolicies(ctx, PolicyFilter{}.WithRoles(roleIDs...))
	if err != nil {
		return nil, err
	}

	denied := make(map[string]struct{})
	for _, policy := range policies {
		if policy.PermissionID == "" {
			continue
		}
		if policy.Type == PolicyDeny {
			denied[policy.PermissionID] = struct{}{}
		} else {
			granted[policy.PermissionID] = struct{}{}
		}
	}

	// Deny wins over both direct grants and allow policies.
	for id := range denied {
		delete(granted, id)
	}

	effectiveIDs := make([]string, 0, len(granted))
	for id := range granted {
		effectiveIDs = append(effectiveIDs, id)
	}

	permissions := []Permission{}
	if len(effectiveIDs) > 0 {
		permissions, err = s.store.ListPermissions(ctx, PermissionFilter{}.WithIDs(effectiveIDs...))
		if err != nil {
			return nil, err
		}
	}

	return &EffectivePermissions{
		IsSuperAdmin: false,
		RoleIDs:      roleIDs,
		Permissions:  permissions,
	}, nil
}

// HasPermissions reports whether the user's effective permission set covers
// every requirement. An empty requirement list is always covered.
func (s *Service) HasPermissions(ctx context.Context, userID string, required []Requirement) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	effective, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	if effective.IsSuperAdmin {
		return true, nil
	}
	return s.matcher.MatchAll(effective.Permissions, required), nil
}

// Authorize is the boundary guard for privileged operations.
//
// Returns nil when the request is allowed:
//   - the system is uninitialized (bootstrap escape hatch), or
//   - the user holds a super role, or
//   - every requirement matches at least one effective permission.
//
// Returns ErrUnauthorized when no user id is given, and a Forbidden error
// carrying the required-permission list on denial. The denial never
// includes the user's actual effective set.
func (s *Service) Authorize(ctx context.Context, userID string, required []Requirement) error {
	if userID == "" {
		return NewError(ErrUnauthorized, "no actor identity")
	}

	initialized, err := s.IsInitialized(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		return nil
	}

	allowed, err := s.HasPermissions(ctx, userID, required)
	if err != nil {
		return err
	}
	if !allowed {
		return NewError(ErrForbidden, "missing required permissions").
			WithActor(userID).
			WithRequired(required)
	}
	return nil
}
