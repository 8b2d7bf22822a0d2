package permkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for PermKit operations.
var (
	// ErrUnauthorized is returned when no actor identity is available.
	ErrUnauthorized = errors.New("permkit: unauthorized")

	// ErrForbidden is returned when an actor's effective permissions do not
	// satisfy the required set.
	ErrForbidden = errors.New("permkit: forbidden")

	// ErrInvalidState is returned when an operation is rejected because of
	// the system's current state, e.g. bootstrap re-run by a non-super-admin.
	ErrInvalidState = errors.New("permkit: invalid state")

	// ErrSuperRoleProtected is returned when trying to update or delete a
	// super role. Super roles are immutable through the engine.
	ErrSuperRoleProtected = errors.New("permkit: super role is protected")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("permkit: not found")

	// ErrInvalidAction is returned when an action is not one of read, write
	// or delete.
	ErrInvalidAction = errors.New("permkit: invalid action")

	// ErrStore is returned when an entity store operation fails.
	ErrStore = errors.New("permkit: store error")
)

// Error wraps a sentinel error with additional context.
//
// Forbidden errors carry the list of permissions that were required, for
// client display; they never carry the actor's actual effective set, so a
// denial cannot leak unrelated grants.
type Error struct {
	Err      error         // Underlying sentinel error
	Message  string        // Additional context
	ActorID  string        // Actor involved (if applicable)
	RoleID   string        // Role involved (if applicable)
	Required []Requirement // Requirements that failed (Forbidden only)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithActor adds the actor whose request triggered the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// WithRole adds the role involved in the error.
func (e *Error) WithRole(roleID string) *Error {
	e.RoleID = roleID
	return e
}

// WithRequired attaches the requirements that were not satisfied.
func (e *Error) WithRequired(required []Requirement) *Error {
	e.Required = required
	return e
}

// RequiredPermissions extracts the required-permission list from a
// Forbidden error. Returns nil for other errors.
func RequiredPermissions(err error) []Requirement {
	var e *Error
	if errors.As(err, &e) && errors.Is(e.Err, ErrForbidden) {
		return e.Required
	}
	return nil
}

// IsForbidden checks if an error is a permission denial.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnauthorized checks if an error is a missing-actor failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalidState checks if an error is a rejected state transition.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsNotFound checks if an error is a missing-entity failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSuperRoleProtected checks if an error is a rejected super role mutation.
func IsSuperRoleProtected(err error) bool {
	return errors.Is(err, ErrSuperRoleProtected)
}
