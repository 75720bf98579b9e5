package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"taskflask/internal/domain"
	"taskflask/internal/token"
)

// UserLookup loads a user row plus password hash for login.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, string, error)
}

// MembershipLookup finds the membership to bind a freshly minted
// credential to.
type MembershipLookup interface {
	GetForUserAndOrg(ctx context.Context, userID, orgID int64) (*domain.Membership, error)
}

// ClientContactLookup loads a client contact plus password hash for the
// portal login.
type ClientContactLookup interface {
	GetContactByEmail(ctx context.Context, email string) (*domain.ClientContact, string, error)
}

// AuthHandler issues member and client-portal credentials. Credential
// cryptography lives in internal/token; this handler only checks the
// stored password hash and binds the claim.
type AuthHandler struct {
	users        UserLookup
	memberships  MembershipLookup
	clients      ClientContactLookup
	memberSigner *token.Signer
	clientSigner *token.Signer
	logger       *slog.Logger
}

func NewAuthHandler(
	users UserLookup,
	memberships MembershipLookup,
	clients ClientContactLookup,
	memberSigner, clientSigner *token.Signer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:        users,
		memberships:  memberships,
		clients:      clients,
		memberSigner: memberSigner,
		clientSigner: clientSigner,
		logger:       logger,
	}
}

type loginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	OrganizationID int64  `json:"organization_id"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /auth/login: member email + password + organization.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" || req.OrganizationID <= 0 {
		writeDomainError(w, domain.ErrValidation("email, password, and organization_id are required"))
		return
	}

	user, hash, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, domain.ErrInvalidCredential("invalid email or password"))
		return
	}
	if !user.Active {
		writeDomainError(w, domain.ErrInvalidCredential("invalid email or password"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeDomainError(w, domain.ErrInvalidCredential("invalid email or password"))
		return
	}

	membership, err := h.memberships.GetForUserAndOrg(r.Context(), user.ID, req.OrganizationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if membership.Status != domain.MembershipActive && membership.Status != domain.MembershipPending {
		writeDomainError(w, domain.ErrUnknownPrincipal("membership is not active"))
		return
	}

	signed, err := h.memberSigner.SignMember(domain.Claim{
		SubjectID:      user.ID,
		OrganizationID: membership.OrganizationID,
		MembershipID:   membership.ID,
	})
	if err != nil {
		h.logger.Error("sign member credential", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: signed})
}

type clientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientLogin handles POST /client-portal/auth/login.
func (h *AuthHandler) ClientLogin(w http.ResponseWriter, r *http.Request) {
	var req clientLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDomainError(w, domain.ErrValidation("email and password are required"))
		return
	}

	contact, hash, err := h.clients.GetContactByEmail(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, domain.ErrInvalidCredential("invalid email or password"))
		return
	}
	if !contact.Active || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeDomainError(w, domain.ErrInvalidCredential("invalid email or password"))
		return
	}

	signed, err := h.clientSigner.SignClient(domain.ClientClaim{
		ContactID:      contact.ID,
		OrganizationID: contact.OrganizationID,
	})
	if err != nil {
		h.logger.Error("sign client credential", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: signed})
}
