// Package token signs and verifies the opaque bearer credentials used by
// members and portal clients. The two credential spaces use independent
// secrets and are never interchangeable.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskflask/internal/domain"
)

// Credential spaces. A token carries its space as a claim; a verifier for
// one space rejects tokens minted for the other even when the secrets were
// misconfigured to the same value.
const (
	SpaceMember = "member"
	SpaceClient = "client"
)

type credentialClaims struct {
	Space          string `json:"spc"`
	OrganizationID int64  `json:"org"`
	MembershipID   int64  `json:"mem,omitempty"`
	jwt.RegisteredClaims
}

// Signer mints HS256 credentials for one space.
type Signer struct {
	secret []byte
	space  string
	ttl    time.Duration
}

// Verifier validates credentials for one space.
type Verifier struct {
	secret []byte
	space  string
}

// NewSigner creates a signer for the given space and token lifetime.
func NewSigner(secret, space string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if space != SpaceMember && space != SpaceClient {
		return nil, fmt.Errorf("unknown credential space %q", space)
	}
	return &Signer{secret: []byte(secret), space: space, ttl: ttl}, nil
}

// NewVerifier creates a verifier for the given space.
func NewVerifier(secret, space string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if space != SpaceMember && space != SpaceClient {
		return nil, fmt.Errorf("unknown credential space %q", space)
	}
	return &Verifier{secret: []byte(secret), space: space}, nil
}

// SignMember mints a member credential for the claim.
func (s *Signer) SignMember(claim domain.Claim) (string, error) {
	if s.space != SpaceMember {
		return "", fmt.Errorf("signer is for the %s space", s.space)
	}
	return s.sign(claim.SubjectID, claim.OrganizationID, claim.MembershipID)
}

// SignClient mints a client-portal credential for the claim.
func (s *Signer) SignClient(claim domain.ClientClaim) (string, error) {
	if s.space != SpaceClient {
		return "", fmt.Errorf("signer is for the %s space", s.space)
	}
	return s.sign(claim.ContactID, claim.OrganizationID, 0)
}

func (s *Signer) sign(subjectID, orgID, membershipID int64) (string, error) {
	now := time.Now()
	claims := credentialClaims{
		Space:          s.space,
		OrganizationID: orgID,
		MembershipID:   membershipID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// VerifyMember validates a member credential and extracts its claim.
func (v *Verifier) VerifyMember(tokenString string) (domain.Claim, error) {
	if v.space != SpaceMember {
		return domain.Claim{}, domain.ErrInvalidCredential("verifier is for the %s space", v.space)
	}
	claims, err := v.verify(tokenString)
	if err != nil {
		return domain.Claim{}, err
	}
	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Claim{}, domain.ErrInvalidCredential("credential subject is not numeric")
	}
	if claims.MembershipID <= 0 {
		return domain.Claim{}, domain.ErrInvalidCredential("credential carries no membership")
	}
	return domain.Claim{
		SubjectID:      subjectID,
		OrganizationID: claims.OrganizationID,
		MembershipID:   claims.MembershipID,
	}, nil
}

// VerifyClient validates a client-portal credential and extracts its claim.
func (v *Verifier) VerifyClient(tokenString string) (domain.ClientClaim, error) {
	if v.space != SpaceClient {
		return domain.ClientClaim{}, domain.ErrInvalidCredential("verifier is for the %s space", v.space)
	}
	claims, err := v.verify(tokenString)
	if err != nil {
		return domain.ClientClaim{}, err
	}
	contactID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.ClientClaim{}, domain.ErrInvalidCredential("credential subject is not numeric")
	}
	return domain.ClientClaim{
		ContactID:      contactID,
		OrganizationID: claims.OrganizationID,
	}, nil
}

func (v *Verifier) verify(tokenString string) (*credentialClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrInvalidCredential("credential is missing")
	}
	claims := &credentialClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrExpiredCredential("credential expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrCorruptCredential("credential signature mismatch")
	case err != nil:
		return nil, domain.ErrInvalidCredential("malformed credential: %v", err)
	case !tok.Valid:
		return nil, domain.ErrInvalidCredential("invalid credential")
	}
	if claims.Space != v.space {
		// A well-formed token from the other space. Treat as corrupt: the
		// caller presented a credential this space can never accept.
		return nil, domain.ErrCorruptCredential("credential belongs to the %s space", claims.Space)
	}
	if claims.OrganizationID <= 0 {
		return nil, domain.ErrInvalidCredential("credential carries no organization")
	}
	return claims, nil
}
