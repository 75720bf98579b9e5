// Package middleware provides the request guard chain: authentication,
// organization scoping, permission, feature, and ownership checks, plus
// ambient request-id and rate-limit middleware.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"taskflask/internal/domain"
)

// MemberVerifier validates a member bearer credential.
type MemberVerifier interface {
	VerifyMember(tokenString string) (domain.Claim, error)
}

// ClientVerifier validates a client-portal bearer credential.
type ClientVerifier interface {
	VerifyClient(tokenString string) (domain.ClientClaim, error)
}

// IdentityResolver turns a verified member claim into an AuthContext.
type IdentityResolver interface {
	Resolve(ctx context.Context, claim domain.Claim) (*domain.AuthContext, error)
}

// ClientResolver turns a verified client claim into a ClientContext.
type ClientResolver interface {
	Resolve(ctx context.Context, claim domain.ClientClaim) (*domain.ClientContext, error)
}

// EntitlementResolver resolves an organization's current entitlement.
type EntitlementResolver interface {
	Resolve(ctx context.Context, orgID int64) (*domain.Entitlement, error)
}

// OwnershipAuthorizer evaluates record-level ownership checks.
type OwnershipAuthorizer interface {
	Authorize(ctx context.Context, ac *domain.AuthContext, t domain.ResourceType, resourceID int64) error
	AuthorizeClient(ctx context.Context, cc *domain.ClientContext, t domain.ResourceType, resourceID int64) error
}

// Guard builds the composable per-route check chain. Routes declare an
// ordered list of checks; each check short-circuits the chain on rejection,
// so a later check never runs after an earlier one rejects.
type Guard struct {
	members      MemberVerifier
	clients      ClientVerifier
	identity     IdentityResolver
	clientIdent  ClientResolver
	entitlements EntitlementResolver
	ownership    OwnershipAuthorizer
	logger       *slog.Logger
}

// NewGuard wires a Guard from its collaborators.
func NewGuard(
	members MemberVerifier,
	clients ClientVerifier,
	identity IdentityResolver,
	clientIdent ClientResolver,
	entitlements EntitlementResolver,
	ownership OwnershipAuthorizer,
	logger *slog.Logger,
) *Guard {
	return &Guard{
		members:      members,
		clients:      clients,
		identity:     identity,
		clientIdent:  clientIdent,
		entitlements: entitlements,
		ownership:    ownership,
		logger:       logger,
	}
}

// bearerToken extracts the bearer credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

// resolveMember runs credential verification plus identity resolution and
// returns the populated context, or writes the rejection and returns nil.
func (g *Guard) resolveMember(w http.ResponseWriter, r *http.Request) *domain.AuthContext {
	tok, ok := bearerToken(r)
	if !ok {
		writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "missing bearer credential")
		return nil
	}
	claim, err := g.members.VerifyMember(tok)
	if err != nil {
		writeError(w, g.logger, err)
		return nil
	}
	ac, err := g.identity.Resolve(r.Context(), claim)
	if err != nil {
		writeError(w, g.logger, err)
		return nil
	}
	return ac
}

// Authenticate verifies the member credential, resolves the authorization
// context, and requires an active membership. The resolved context is
// stored in the request context for handlers and later checks.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := g.resolveMember(w, r)
		if ac == nil {
			return
		}
		if !ac.Active() || !ac.User.Active {
			writeRejection(w, http.StatusUnauthorized, domain.ReasonUnknownPrincipal,
				"membership is not active")
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithAuthContext(r.Context(), ac)))
	})
}

// AuthenticatePending behaves like Authenticate but tolerates pending
// memberships, for invite-acceptance style endpoints.
func (g *Guard) AuthenticatePending(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := g.resolveMember(w, r)
		if ac == nil {
			return
		}
		status := ac.Membership.Status
		if status != domain.MembershipActive && status != domain.MembershipPending {
			writeRejection(w, http.StatusUnauthorized, domain.ReasonUnknownPrincipal,
				"membership is not active")
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithAuthContext(r.Context(), ac)))
	})
}

// OptionalAuth resolves a context when a valid credential is present but
// lets the request through anonymously otherwise. Handlers decide what an
// absent context means.
func (g *Guard) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claim, err := g.members.VerifyMember(tok)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ac, err := g.identity.Resolve(r.Context(), claim)
		if err != nil || !ac.Active() {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithAuthContext(r.Context(), ac)))
	})
}

// AuthenticateClient verifies a client-portal credential and resolves the
// client context. Client credentials never resolve a member identity; the
// two token spaces are disjoint.
func (g *Guard) AuthenticateClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := bearerToken(r)
		if !ok {
			writeRejection(w, http.StatusUnauthorized, domain.ReasonInvalidCredential, "missing bearer credential")
			return
		}
		claim, err := g.clients.VerifyClient(tok)
		if err != nil {
			writeError(w, g.logger, err)
			return
		}
		cc, err := g.clientIdent.Resolve(r.Context(), claim)
		if err != nil {
			writeError(w, g.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithClientContext(r.Context(), cc)))
	})
}
