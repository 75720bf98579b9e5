// Package api provides the HTTP surface: login/token issuance, guarded
// demo routes, and domain-error to status-code mapping.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskflask/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// Credential and identity failures are 401; permission, feature, scope,
// and entitlement failures are 403; not-found-or-denied is 404.
func httpStatusFromDomainError(err error) int {
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
	case errors.As(err, &credErr), errors.As(err, &unknownErr):
		return http.StatusUnauthorized
	case errors.As(err, &permErr), errors.As(err, &featErr),
		errors.As(err, &noEntErr), errors.As(err, &scopeErr):
		return http.StatusForbidden
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// reasonFromDomainError returns the stable machine-readable reason code.
// Cross-tenant mismatches are reported as unknown_principal so callers
// cannot distinguish them from genuine absence.
func reasonFromDomainError(err error) string {
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
		return credErr.Reason
	case errors.As(err, &unknownErr):
		return domain.ReasonUnknownPrincipal
	case errors.As(err, &permErr):
		return domain.ReasonInsufficientPermission
	case errors.As(err, &featErr):
		return domain.ReasonFeatureNotEntitled
	case errors.As(err, &noEntErr):
		return domain.ReasonNoEntitlementContext
	case errors.As(err, &scopeErr):
		return domain.ReasonCrossTenantMismatch
	case errors.As(err, &nfErr):
		return domain.ReasonResourceNotFoundOrDenied
	case errors.As(err, &valErr):
		return "invalid_request"
	default:
		return "internal_error"
	}
}

// writeDomainError writes the JSON rejection for a domain error.
func writeDomainError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	if status == http.StatusUnauthorized {
		// Identity failures carry no structural detail.
		message = "unauthorized"
	}
	writeJSON(w, status, map[string]interface{}{
		"code":    status,
		"reason":  reasonFromDomainError(err),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
