package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"taskflask/internal/domain"
)

// rejection is the JSON body written for every denied request.
type rejection struct {
	Code    int                    `json:"code"`
	Reason  string                 `json:"reason"`
	Message string                 `json:"message"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

func writeRejection(w http.ResponseWriter, status int, reason, message string) {
	writeRejectionWithDetail(w, status, reason, message, nil)
}

func writeRejectionWithDetail(w http.ResponseWriter, status int, reason, message string, detail map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejection{
		Code:    status,
		Reason:  reason,
		Message: message,
		Detail:  detail,
	})
}

// writeError maps a domain error onto its HTTP rejection. Permission and
// feature denials surface required versus held values; unknown-principal
// and tenant-mismatch cases never carry structural detail, so a replayed
// credential learns nothing about other tenants.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		credErr    *domain.CredentialError
		unknownErr *domain.UnknownPrincipalError
		permErr    *domain.PermissionDeniedError
		featErr    *domain.FeatureDeniedError
		noEntErr   *domain.NoEntitlementError
		scopeErr   *domain.ScopeDeniedError
		nfErr      *domain.NotFoundOrDeniedError
		valErr     *domain.ValidationError
	)

	switch {
	case errors.As(err, &credErr):
		writeRejection(w, http.StatusUnauthorized, credErr.Reason, credErr.Message)
	case errors.As(err, &unknownErr):
		// The internal reason may record a cross-tenant mismatch; the
		// response is indistinguishable from an unknown principal.
		if unknownErr.Reason == domain.ReasonCrossTenantMismatch {
			logger.Warn("cross-tenant credential rejected", "error", unknownErr.Message)
		}
		writeRejection(w, http.StatusUnauthorized, domain.ReasonUnknownPrincipal, "unknown principal")
	case errors.As(err, &permErr):
		writeRejectionWithDetail(w, http.StatusForbidden, domain.ReasonInsufficientPermission,
			permErr.Error(), map[string]interface{}{
				"required": permErr.Required,
				"held":     permErr.Held,
			})
	case errors.As(err, &featErr):
		writeRejectionWithDetail(w, http.StatusForbidden, domain.ReasonFeatureNotEntitled,
			featErr.Error(), map[string]interface{}{
				"feature": featErr.Feature,
				"plan":    featErr.Plan,
			})
	case errors.As(err, &noEntErr):
		writeRejection(w, http.StatusForbidden, domain.ReasonNoEntitlementContext, "no plan resolved for organization")
	case errors.As(err, &scopeErr):
		writeRejection(w, http.StatusForbidden, domain.ReasonCrossTenantMismatch, scopeErr.Message)
	case errors.As(err, &nfErr):
		writeRejection(w, http.StatusNotFound, domain.ReasonResourceNotFoundOrDenied, nfErr.Error())
	case errors.As(err, &valErr):
		writeRejection(w, http.StatusBadRequest, "invalid_request", valErr.Message)
	default:
		logger.Error("unhandled error in guard chain", "error", err)
		writeRejection(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
