// Package domain defines core types, interfaces, and errors for the
// authorization and entitlement core.
package domain

import "fmt"

// Machine-readable reason codes carried on every rejection.
const (
	ReasonInvalidCredential        = "invalid_credential"
	ReasonExpiredCredential        = "expired_credential"
	ReasonCorruptCredential        = "corrupt_credential"
	ReasonUnknownPrincipal         = "unknown_principal"
	ReasonCrossTenantMismatch      = "cross_tenant_mismatch"
	ReasonInsufficientPermission   = "insufficient_permission"
	ReasonFeatureNotEntitled       = "feature_not_entitled"
	ReasonNoEntitlementContext     = "no_entitlement_context"
	ReasonResourceNotFoundOrDenied = "resource_not_found_or_denied"
)

// CredentialError indicates a bearer credential that could not be accepted:
// malformed, expired, or carrying a bad signature.
type CredentialError struct {
	Reason  string // one of the credential Reason* codes
	Message string
}

func (e *CredentialError) Error() string { return e.Message }

// UnknownPrincipalError indicates the verified claim does not resolve to a
// current membership (revoked, deleted, or belonging to another tenant).
// Cross-tenant mismatches use this type too so the caller-visible behavior
// is identical to genuine absence.
type UnknownPrincipalError struct {
	Reason  string // unknown_principal or cross_tenant_mismatch
	Message string
}

func (e *UnknownPrincipalError) Error() string { return e.Message }

// PermissionDeniedError indicates the caller's role lacks a required
// permission. Required and held values are surfaced for diagnostics.
type PermissionDeniedError struct {
	Required string
	Held     []string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission %q required", e.Required)
}

// FeatureDeniedError indicates the organization's plan does not include a
// required feature.
type FeatureDeniedError struct {
	Feature string
	Plan    string
}

func (e *FeatureDeniedError) Error() string {
	return fmt.Sprintf("feature %q not included in plan %q", e.Feature, e.Plan)
}

// NoEntitlementError indicates no plan could be resolved for the
// organization at all.
type NoEntitlementError struct {
	OrganizationID int64
}

func (e *NoEntitlementError) Error() string {
	return fmt.Sprintf("no entitlement context for organization %d", e.OrganizationID)
}

// ScopeDeniedError indicates a request referenced an organization other
// than the one the caller's context is bound to.
type ScopeDeniedError struct {
	Message string
}

func (e *ScopeDeniedError) Error() string { return e.Message }

// NotFoundOrDeniedError covers both a genuinely absent resource and one the
// caller may not see. The two cases are deliberately indistinguishable to
// avoid leaking existence across tenants.
type NotFoundOrDeniedError struct {
	ResourceType string
	ResourceID   int64
}

func (e *NotFoundOrDeniedError) Error() string {
	return fmt.Sprintf("%s %d not found", e.ResourceType, e.ResourceID)
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrInvalidCredential creates a CredentialError for a malformed or missing credential.
func ErrInvalidCredential(format string, args ...interface{}) *CredentialError {
	return &CredentialError{Reason: ReasonInvalidCredential, Message: fmt.Sprintf(format, args...)}
}

// ErrExpiredCredential creates a CredentialError for an expired credential.
func ErrExpiredCredential(format string, args ...interface{}) *CredentialError {
	return &CredentialError{Reason: ReasonExpiredCredential, Message: fmt.Sprintf(format, args...)}
}

// ErrCorruptCredential creates a CredentialError for a signature mismatch.
func ErrCorruptCredential(format string, args ...interface{}) *CredentialError {
	return &CredentialError{Reason: ReasonCorruptCredential, Message: fmt.Sprintf(format, args...)}
}

// ErrUnknownPrincipal creates an UnknownPrincipalError.
func ErrUnknownPrincipal(format string, args ...interface{}) *UnknownPrincipalError {
	return &UnknownPrincipalError{Reason: ReasonUnknownPrincipal, Message: fmt.Sprintf(format, args...)}
}

// ErrCrossTenantMismatch creates an UnknownPrincipalError whose internal
// reason records the tenant mismatch for logging. Callers see the same
// rejection as for an unknown principal.
func ErrCrossTenantMismatch(format string, args ...interface{}) *UnknownPrincipalError {
	return &UnknownPrincipalError{Reason: ReasonCrossTenantMismatch, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
