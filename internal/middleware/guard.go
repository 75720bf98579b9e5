package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskflask/internal/domain"
)

// AdminPermission gates organization-administration endpoints.
const AdminPermission = domain.Permission("organization.admin")

// orgIDParam is the chi URL parameter carrying an explicit organization id.
const orgIDParam = "orgID"

// RequireOrganizationAccess rejects requests whose {orgID} path parameter
// names an organization other than the one the caller's context is bound
// to. Routes without the parameter pass through; body-scoped organization
// ids are the handler's responsibility.
//
// Works for both member and client contexts.
func (g *Guard) RequireOrganizationAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, orgIDParam)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		orgID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeRejection(w, http.StatusForbidden, domain.ReasonCrossTenantMismatch,
				"invalid organization reference")
			return
		}

		if ac, ok := domain.AuthContextFrom(r.Context()); ok {
			if ac.OrganizationID() != orgID {
				writeRejection(w, http.StatusForbidden, domain.ReasonCrossTenantMismatch,
					"organization is outside the caller's scope")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if cc, ok := domain.ClientContextFrom(r.Context()); ok {
			if cc.OrganizationID() != orgID {
				writeRejection(w, http.StatusForbidden, domain.ReasonCrossTenantMismatch,
					"organization is outside the caller's scope")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
	})
}

// RequirePermission rejects requests whose context lacks the permission.
// The denial surfaces the required and held permissions for diagnostics.
func (g *Guard) RequirePermission(p domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := domain.AuthContextFrom(r.Context())
			if !ok {
				writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
				return
			}
			if !ac.Permissions.Has(p) {
				writeError(w, g.logger, &domain.PermissionDeniedError{
					Required: string(p),
					Held:     ac.Permissions.Strings(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission passes when the context holds at least one of the
// permissions, short-circuiting on the first match.
func (g *Guard) RequireAnyPermission(perms ...domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := domain.AuthContextFrom(r.Context())
			if !ok {
				writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
				return
			}
			if !ac.Permissions.HasAny(perms...) {
				required := make([]string, len(perms))
				for i, p := range perms {
					required[i] = string(p)
				}
				writeRejectionWithDetail(w, http.StatusForbidden, domain.ReasonInsufficientPermission,
					"none of the required permissions are held", map[string]interface{}{
						"required_any": required,
						"held":         ac.Permissions.Strings(),
					})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOrganizationAdmin gates administration endpoints: the context must
// hold organization.admin (or a wildcard covering it).
func (g *Guard) RequireOrganizationAdmin(next http.Handler) http.Handler {
	return g.RequirePermission(AdminPermission)(next)
}

// RequireFeature rejects requests whose organization plan does not include
// the feature tag. An organization with no resolvable plan at all rejects
// with no_entitlement_context; infrastructure failures deny rather than
// error, since granting access on failure is the less safe default.
func (g *Guard) RequireFeature(tag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := domain.AuthContextFrom(r.Context())
			if !ok {
				writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
				return
			}
			ent, err := g.entitlements.Resolve(r.Context(), ac.OrganizationID())
			if err != nil {
				var noEnt *domain.NoEntitlementError
				if errors.As(err, &noEnt) {
					writeError(w, g.logger, err)
					return
				}
				g.logger.Warn("entitlement resolution failed, denying feature",
					"organization_id", ac.OrganizationID(), "feature", tag, "error", err)
				writeRejection(w, http.StatusForbidden, domain.ReasonFeatureNotEntitled,
					"feature is not available")
				return
			}
			if !ent.HasFeature(tag) {
				writeError(w, g.logger, &domain.FeatureDeniedError{Feature: tag, Plan: ent.PlanName})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireResourceOwnership gates endpoints keyed by a specific record. The
// record id is read from the {<type>ID} path parameter (e.g. {taskID}).
// Absence and denial are deliberately indistinguishable: both reject 404.
func (g *Guard) RequireResourceOwnership(t domain.ResourceType) func(http.Handler) http.Handler {
	param := string(t) + "ID"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := domain.AuthContextFrom(r.Context())
			if !ok {
				writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
				return
			}
			resourceID, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil {
				writeRejection(w, http.StatusNotFound, domain.ReasonResourceNotFoundOrDenied,
					string(t)+" not found")
				return
			}
			if err := g.ownership.Authorize(r.Context(), ac, t, resourceID); err != nil {
				writeError(w, g.logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireClientResourceOwnership is the portal variant: the record must
// have been created by the calling client contact. Permission and feature
// checks are structurally unavailable to client contexts.
func (g *Guard) RequireClientResourceOwnership(t domain.ResourceType) func(http.Handler) http.Handler {
	param := string(t) + "ID"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cc, ok := domain.ClientContextFrom(r.Context())
			if !ok {
				writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "authentication required")
				return
			}
			resourceID, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil {
				writeRejection(w, http.StatusNotFound, domain.ReasonResourceNotFoundOrDenied,
					string(t)+" not found")
				return
			}
			if err := g.ownership.AuthorizeClient(r.Context(), cc, t, resourceID); err != nil {
				writeError(w, g.logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
