package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskflask/internal/domain"
	"taskflask/internal/service"
)

// CoreHandler serves the guarded demo routes. Route handlers run only
// after the guard chain has populated the request context, so they read
// the resolved context without re-checking anything.
type CoreHandler struct {
	entitlements *service.EntitlementService
	logger       *slog.Logger
}

func NewCoreHandler(entitlements *service.EntitlementService, logger *slog.Logger) *CoreHandler {
	return &CoreHandler{entitlements: entitlements, logger: logger}
}

// Me handles GET /me: the caller's resolved authorization context.
func (h *CoreHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := domain.AuthContextFrom(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrInvalidCredential("authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":           ac.UserID(),
		"email":             ac.User.Email,
		"organization_id":   ac.OrganizationID(),
		"organization_slug": ac.Organization.Slug,
		"role":              ac.Role.Name,
		"membership_status": ac.Membership.Status,
		"permissions":       ac.Permissions.Strings(),
	})
}

// OrgSettings handles GET /orgs/{orgID}/settings (admin only).
func (h *CoreHandler) OrgSettings(w http.ResponseWriter, r *http.Request) {
	ac, _ := domain.AuthContextFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organization_id":   ac.OrganizationID(),
		"organization_slug": ac.Organization.Slug,
	})
}

// Analytics handles GET /orgs/{orgID}/analytics/summary, gated on the
// analytics feature.
func (h *CoreHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ac, _ := domain.AuthContextFrom(r.Context())
	ent, err := h.entitlements.Resolve(r.Context(), ac.OrganizationID())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organization_id": ac.OrganizationID(),
		"plan":            ent.PlanSlug,
		"features":        ent.FeatureList(),
	})
}

// Task handles GET /orgs/{orgID}/tasks/{taskID}. The ownership guard has
// already established the caller may see the record.
func (h *CoreHandler) Task(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id": taskID,
	})
}

// ClientTicket handles GET /client-portal/tickets/{taskID} for portal
// callers; the client ownership guard has already run.
func (h *CoreHandler) ClientTicket(w http.ResponseWriter, r *http.Request) {
	cc, _ := domain.ClientContextFrom(r.Context())
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticket_id":  taskID,
		"contact_id": cc.Contact.ID,
	})
}

// Health handles GET /healthz.
func (h *CoreHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
