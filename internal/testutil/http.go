package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AsUser injects an authenticated user with the given role and
// organization into the request context, bypassing token verification.
func AsUser(r *http.Request, role string, orgID primitive.ObjectID) *http.Request {
	return auth.WithUser(r, &auth.CurrentUser{
		ID:             primitive.NewObjectID(),
		Username:       "test-" + role,
		Role:           role,
		OrganizationID: orgID,
	})
}

// AsAdmin injects an admin user scoped to the given organization.
func AsAdmin(r *http.Request, orgID primitive.ObjectID) *http.Request {
	return AsUser(r, models.RoleAdmin, orgID)
}

// AsViewer injects a viewer user scoped to the given organization.
func AsViewer(r *http.Request, orgID primitive.ObjectID) *http.Request {
	return AsUser(r, models.RoleViewer, orgID)
}
