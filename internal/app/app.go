// Package app wires repositories, services, and the guard chain from a
// loaded configuration and open database pools.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"taskflask/internal/api"
	"taskflask/internal/config"
	"taskflask/internal/db/repository"
	"taskflask/internal/middleware"
	"taskflask/internal/service"
	"taskflask/internal/token"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the process logger. Lifecycle of the pools is owned
// by the bootstrap, not by the authorization core.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App is the fully wired application.
type App struct {
	Router       chi.Router
	Guard        *middleware.Guard
	Identity     *service.IdentityService
	Entitlements *service.EntitlementService
}

// New wires all repositories, services, verifiers, and the router.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories ===
	membershipRepo := repository.NewMembershipRepo(deps.ReadDB)
	subscriptionRepo := repository.NewSubscriptionRepo(deps.WriteDB) // needs the fallback upsert
	ownershipRepo := repository.NewOwnershipRepo(deps.ReadDB)
	clientRepo := repository.NewClientRepo(deps.ReadDB)
	userRepo := repository.NewUserRepo(deps.ReadDB)

	// === Services ===
	identitySvc := service.NewIdentityService(membershipRepo, deps.Logger.With("component", "identity"))
	entitlementSvc := service.NewEntitlementService(subscriptionRepo, deps.Logger.With("component", "entitlement"))
	ownershipSvc := service.NewOwnershipService(ownershipRepo)
	clientSvc := service.NewClientIdentityService(clientRepo)

	// === Credential spaces ===
	memberVerifier, err := token.NewVerifier(cfg.Auth.MemberSecret, token.SpaceMember)
	if err != nil {
		return nil, fmt.Errorf("member verifier: %w", err)
	}
	clientVerifier, err := token.NewVerifier(cfg.Auth.ClientSecret, token.SpaceClient)
	if err != nil {
		return nil, fmt.Errorf("client verifier: %w", err)
	}
	memberSigner, err := token.NewSigner(cfg.Auth.MemberSecret, token.SpaceMember, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("member signer: %w", err)
	}
	clientSigner, err := token.NewSigner(cfg.Auth.ClientSecret, token.SpaceClient, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("client signer: %w", err)
	}

	// === Guard chain ===
	guard := middleware.NewGuard(
		memberVerifier, clientVerifier,
		identitySvc, clientSvc,
		entitlementSvc, ownershipSvc,
		deps.Logger.With("component", "guard"),
	)

	// === HTTP surface ===
	authHandler := api.NewAuthHandler(
		userRepo, membershipRepo, clientRepo,
		memberSigner, clientSigner,
		deps.Logger.With("component", "auth-handler"),
	)
	coreHandler := api.NewCoreHandler(entitlementSvc, deps.Logger.With("component", "core-handler"))

	return &App{
		Router:       api.NewRouter(guard, authHandler, coreHandler),
		Guard:        guard,
		Identity:     identitySvc,
		Entitlements: entitlementSvc,
	}, nil
}
