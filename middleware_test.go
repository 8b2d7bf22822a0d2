package permkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(actorID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/rbac/roles", nil)
	if actorID != "" {
		req = req.WithContext(WithActorID(req.Context(), actorID))
	}
	return req
}

// TestMiddlewareRequiresActor tests the 401 path
func TestMiddlewareRequiresActor(t *testing.T) {
	service, _ := newTestService(t)
	mw := NewMiddleware(service)

	handler := mw.RequirePermissions(Requirement{Matcher: "/admin/rbac/roles", Action: ActionRead})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body forbiddenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body.Message)
}

// TestMiddlewareUninitializedPassThrough tests the bootstrap escape hatch
// at the HTTP boundary
func TestMiddlewareUninitializedPassThrough(t *testing.T) {
	service, _ := newTestService(t)
	mw := NewMiddleware(service)

	handler := mw.RequirePermissions(Requirement{Matcher: "/admin/rbac/roles", Action: ActionWrite})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("first-admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestMiddlewareForbiddenCarriesRequiredPermissions tests the 403 payload
func TestMiddlewareForbiddenCarriesRequiredPermissions(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	mw := NewMiddleware(service)

	role := createTestRole(t, service, "viewer", false)
	_, err := service.AssignRole(ctx, "someone", role.ID)
	require.NoError(t, err)

	required := Requirement{Matcher: "/admin/rbac/roles", Action: ActionWrite}
	handler := mw.RequirePermissions(required)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("no-grants"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body forbiddenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body.Message)
	require.Len(t, body.RequiredPermissions, 1)
	assert.Equal(t, required, body.RequiredPermissions[0])
}

// TestMiddlewareAllowsGrantedActor tests the allow path and the stashed
// effective set
func TestMiddlewareAllowsGrantedActor(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	mw := NewMiddleware(service)

	role := createTestRole(t, service, "rbac-reader", false)
	permission := createTestPermission(t, service, "rbac.roles.read", "/admin/rbac/roles", ActionRead)
	_, err := service.GrantPermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	_, err = service.AssignRole(ctx, "reader", role.ID)
	require.NoError(t, err)

	var stashed *EffectivePermissions
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stashed = GetEffectivePermissions(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.RequirePermissions(Requirement{Matcher: "/admin/rbac/roles", Action: ActionRead})(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("reader"))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stashed)
	assert.False(t, stashed.IsSuperAdmin)
	assert.Len(t, stashed.Permissions, 1)
}

// TestMiddlewareCustomExtractor tests the actor id extractor option
func TestMiddlewareCustomExtractor(t *testing.T) {
	service, _ := newTestService(t)
	mw := NewMiddleware(service,
		WithActorIDExtractor(func(r *http.Request) string {
			return r.Header.Get("X-User-ID")
		}),
	)

	handler := mw.RequirePermissions(Requirement{Matcher: "/x", Action: ActionRead})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-User-ID", "header-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	// System is uninitialized, so the request passes.
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestMiddlewareCustomErrorHandler tests the error handler option
func TestMiddlewareCustomErrorHandler(t *testing.T) {
	service, _ := newTestService(t)
	mw := NewMiddleware(service,
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	handler := mw.RequirePermissions(Requirement{Matcher: "/x", Action: ActionRead})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(""))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

// TestMiddlewareRequireSuperAdmin tests the super-only guard
func TestMiddlewareRequireSuperAdmin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	mw := NewMiddleware(service)

	super := createTestRole(t, service, "super-admin", true)
	regular := createTestRole(t, service, "viewer", false)
	_, err := service.AssignRole(ctx, "the-admin", super.ID)
	require.NoError(t, err)
	_, err = service.AssignRole(ctx, "the-viewer", regular.ID)
	require.NoError(t, err)

	handler := mw.RequireSuperAdmin()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("the-admin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("the-viewer"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No escape hatch: even on a fresh system the guard holds.
	freshService, _ := newTestService(t)
	freshMW := NewMiddleware(freshService)
	rec = httptest.NewRecorder()
	freshMW.RequireSuperAdmin()(okHandler()).ServeHTTP(rec, requestAs("anyone"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
