package permkit

import (
	"context"
)

// Context keys for PermKit values.
type contextKey string

const (
	contextKeyActorID   contextKey = "permkit:actor_id"
	contextKeyEffective contextKey = "permkit:effective"
)

// WithActorID adds the authenticated actor's id to the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, contextKeyActorID, actorID)
}

// GetActorID retrieves the actor id from context.
// Returns empty string if not set.
func GetActorID(ctx context.Context) string {
	if v := ctx.Value(contextKeyActorID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithEffectivePermissions adds a resolved permission set to the context.
// This is set by middleware so handlers can render "what can I do" views
// without resolving again within the same request.
func WithEffectivePermissions(ctx context.Context, effective *EffectivePermissions) context.Context {
	return context.WithValue(ctx, contextKeyEffective, effective)
}

// GetEffectivePermissions retrieves the resolved permission set from
// context. Returns nil if not set.
func GetEffectivePermissions(ctx context.Context) *EffectivePermissions {
	if v := ctx.Value(contextKeyEffective); v != nil {
		if e, ok := v.(*EffectivePermissions); ok {
			return e
		}
	}
	return nil
}
