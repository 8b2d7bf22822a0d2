package permkit

import (
	"encoding/json"
	"net/http"
)

// Middleware provides HTTP middleware that gates routes on permission
// requirements. It is router-agnostic: the returned wrappers work with
// chi, gorilla/mux and the standard library alike.
type Middleware struct {
	service      *Service
	getActorID   func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := permkit.NewMiddleware(service,
//	    permkit.WithActorIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-User-ID")
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getActorID:   defaultGetActorID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithActorIDExtractor sets a custom function to extract the actor id from
// a request.
func WithActorIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getActorID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware denials.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetActorID(r *http.Request) string {
	return GetActorID(r.Context())
}

// forbiddenResponse is the denial payload. It carries the permissions the
// route required, never the actor's actual grants.
type forbiddenResponse struct {
	Message             string        `json:"message"`
	RequiredPermissions []Requirement `json:"required_permissions,omitempty"`
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case IsUnauthorized(err):
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(forbiddenResponse{Message: "Unauthorized"})
	case IsForbidden(err):
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(forbiddenResponse{
			Message:             "Forbidden",
			RequiredPermissions: RequiredPermissions(err),
		})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(forbiddenResponse{Message: "Internal Server Error"})
	}
}

// RequirePermissions creates middleware that requires every listed
// permission. While the system is uninitialized (no role assignment exists
// anywhere) requests pass through, so the very first super admin can be
// set up.
//
// Example:
//
//	router.With(mw.RequirePermissions(
//	    permkit.Requirement{Matcher: "/admin/rbac/roles", Action: permkit.ActionWrite},
//	)).Post("/admin/rbac/roles", createRoleHandler)
func (m *Middleware) RequirePermissions(required ...Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "no actor identity"))
				return
			}

			if err := m.service.Authorize(ctx, actorID, required); err != nil {
				m.errorHandler(w, r, err)
				return
			}

			// Stash the resolved set so handlers can render capability
			// views without resolving again.
			effective, err := m.service.EffectivePermissions(ctx, actorID)
			if err == nil {
				ctx = WithEffectivePermissions(ctx, effective)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin creates middleware that only lets holders of a super
// role through. Used to protect role-mutation endpoints. Unlike
// RequirePermissions there is no uninitialized escape hatch.
func (m *Middleware) RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "no actor identity"))
				return
			}

			isSuper, err := m.service.IsSuperAdmin(r.Context(), actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !isSuper {
				m.errorHandler(w, r, NewError(ErrForbidden, "super admin required").
					WithActor(actorID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
