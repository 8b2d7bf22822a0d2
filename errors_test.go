package permkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorWrapping tests sentinel matching through the Error wrapper
func TestErrorWrapping(t *testing.T) {
	err := NewError(ErrForbidden, "missing required permissions").
		WithActor("user-a").
		WithRequired([]Requirement{{Matcher: "/x", Action: ActionRead}})

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "permkit: forbidden: missing required permissions", err.Error())
	assert.Equal(t, "user-a", err.ActorID)

	var target *Error
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Required, 1)
}

// TestErrorMessageOptional tests formatting without a context message
func TestErrorMessageOptional(t *testing.T) {
	err := NewError(ErrInvalidState, "")
	assert.Equal(t, ErrInvalidState.Error(), err.Error())
}

// TestErrorClassifiers tests the Is* helpers
func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		check   func(error) bool
		matches bool
	}{
		{"Forbidden matches", NewError(ErrForbidden, "x"), IsForbidden, true},
		{"Forbidden mismatch", NewError(ErrUnauthorized, "x"), IsForbidden, false},
		{"Unauthorized matches", NewError(ErrUnauthorized, "x"), IsUnauthorized, true},
		{"InvalidState matches", NewError(ErrInvalidState, "x"), IsInvalidState, true},
		{"NotFound matches", NewError(ErrNotFound, "x"), IsNotFound, true},
		{"SuperRoleProtected matches", NewError(ErrSuperRoleProtected, "x"), IsSuperRoleProtected, true},
		{"Wrapped once more", fmt.Errorf("outer: %w", NewError(ErrForbidden, "x")), IsForbidden, true},
		{"Unrelated error", errors.New("boom"), IsForbidden, false},
		{"Nil error", nil, IsForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.check(tt.err))
		})
	}
}

// TestRequiredPermissions tests extraction of the denial payload
func TestRequiredPermissions(t *testing.T) {
	required := []Requirement{
		{Matcher: "/x", Action: ActionRead},
		{Matcher: "/y", Action: ActionWrite},
	}

	err := NewError(ErrForbidden, "denied").WithRequired(required)
	assert.Equal(t, required, RequiredPermissions(err))

	// Only Forbidden errors carry a required list.
	assert.Nil(t, RequiredPermissions(NewError(ErrInvalidState, "x").WithRequired(required)))
	assert.Nil(t, RequiredPermissions(errors.New("boom")))
	assert.Nil(t, RequiredPermissions(nil))
}
