package permkit

import (
	"context"
)

// ============================================================================
// ROLE MUTATION
// ============================================================================

// CreateRole creates a new role. Roles created with IsSuper set become
// immutable through the engine: they can never be updated or deleted.
func (s *Service) CreateRole(ctx context.Context, role *Role) error {
	return s.store.CreateRole(ctx, role)
}

// UpdateRole updates a role's name and description. Super roles are
// rejected: the surrounding administrative layer must never be able to
// rename or downgrade the administrative path.
func (s *Service) UpdateRole(ctx context.Context, role *Role) error {
	current, err := s.store.GetRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if current.IsSuper {
		return NewError(ErrSuperRoleProtected, "super roles cannot be updated").
			WithRole(role.ID)
	}
	if role.IsSuper {
		return NewError(ErrInvalidState, "a role cannot be promoted to super").
			WithRole(role.ID)
	}
	return s.store.UpdateRole(ctx, role)
}

// DeleteRole deletes a role. Super roles are rejected so the only
// administrative path cannot be orphaned.
func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	current, err := s.store.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if current.IsSuper {
		return NewError(ErrSuperRoleProtected, "super roles cannot be deleted").
			WithRole(roleID)
	}
	return s.store.DeleteRole(ctx, roleID)
}

// ============================================================================
// ASSIGNMENTS
// ============================================================================

// AssignRole assigns a role to a user. Assigning the same role twice is a
// no-op returning the existing assignment.
func (s *Service) AssignRole(ctx context.Context, userID, roleID string) (*UserRole, error) {
	if _, err := s.store.GetRole(ctx, roleID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListUserRoles(ctx, UserRoleFilter{}.WithUser(userID).WithRoles(roleID))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	assignment := &UserRole{UserID: userID, RoleID: roleID}
	if err := s.store.CreateUserRole(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// UnassignRole removes a user's assignment of a role. Removing an
// assignment the user does not hold is a no-op.
func (s *Service) UnassignRole(ctx context.Context, userID, roleID string) error {
	existing, err := s.store.ListUserRoles(ctx, UserRoleFilter{}.WithUser(userID).WithRoles(roleID))
	if err != nil {
		return err
	}
	for _, assignment := range existing {
		if err := s.store.DeleteUserRole(ctx, assignment.ID); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// GRANTS
// ============================================================================

// GrantPermission creates a direct grant of a permission to a role.
// Granting an already granted permission is a no-op returning the existing
// grant.
func (s *Service) GrantPermission(ctx context.Context, roleID, permissionID string) (*RolePermission, error) {
	if _, err := s.store.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPermission(ctx, permissionID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListRolePermissions(ctx,
		RolePermissionFilter{}.WithRoles(roleID).WithPermission(permissionID))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	grant := &RolePermission{RoleID: roleID, PermissionID: permissionID}
	if err := s.store.CreateRolePermission(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// RevokePermission removes a role's direct grant of a permission.
// Revoking a permission that was never granted is a no-op.
func (s *Service) RevokePermission(ctx context.Context, roleID, permissionID string) error {
	existing, err := s.store.ListRolePermissions(ctx,
		RolePermissionFilter{}.WithRoles(roleID).WithPermission(permissionID))
	if err != nil {
		return err
	}
	for _, grant := range existing {
		if err := s.store.DeleteRolePermission(ctx, grant.ID); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// POLICIES
// ============================================================================

// SetPolicy sets the allow/deny override a role carries for a permission,
// replacing any previous override for the same (role, permission) pair so
// a pair carries at most one override.
func (s *Service) SetPolicy(ctx context.Context, roleID, permissionID string, policyType PolicyType) (*Policy, error) {
	if policyType != PolicyAllow && policyType != PolicyDeny {
		return nil, NewError(ErrInvalidState, "policy type must be allow or deny").
			WithRole(roleID)
	}
	if _, err := s.store.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPermission(ctx, permissionID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListPolicies(ctx,
		PolicyFilter{}.WithRoles(roleID).WithPermission(permissionID))
	if err != nil {
		return nil, err
	}
	for _, policy := range existing {
		if err := s.store.DeletePolicy(ctx, policy.ID); err != nil {
			return nil, err
		}
	}

	policy := &Policy{RoleID: roleID, PermissionID: permissionID, Type: policyType}
	if err := s.store.CreatePolicy(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// ClearPolicy removes any override a role carries for a permission.
// Clearing a pair with no override is a no-op.
func (s *Service) ClearPolicy(ctx context.Context, roleID, permissionID string) error {
	existing, err := s.store.ListPolicies(ctx,
		PolicyFilter{}.WithRoles(roleID).WithPermission(permissionID))
	if err != nil {
		return err
	}
	for _, policy := range existing {
		if err := s.store.DeletePolicy(ctx, policy.ID); err != nil {
			return err
		}
	}
	return nil
}
