package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// TokenIssuerPort mints bearer credentials for authenticated identities.
type TokenIssuerPort interface {
	Issue(identity shared.Identity) (string, time.Time, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	issuer TokenIssuerPort
}

// NewService constructs a new Service.
func NewService(repo Repository, issuer TokenIssuerPort) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// timingPadHash is a throwaway bcrypt hash compared against on the
// unknown-email path, so that path costs the same as a real password
// check and response timing does not reveal whether an account exists.
var timingPadHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Authenticate validates email/password credentials and returns the
// resolved identity. Unknown email, wrong password and disabled
// accounts are deliberately indistinguishable, in both the returned
// error and the bcrypt work performed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (shared.Identity, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(timingPadHash, []byte(password))
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	if !user.Enabled {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	return shared.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Authorities: rbac.ResolveAuthorities(user.Roles),
	}, nil
}

// LoginResult carries the minted credential and the projection the
// boundary layer returns to the client.
type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	Identity    shared.Identity
	Roles       []string
	Permissions []string
}

// Login authenticates and mints a bearer token for the identity.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	token, expiresAt, err := s.issuer.Issue(identity)
	if err != nil {
		return LoginResult{}, err
	}
	var roles, permissions []string
	for _, a := range identity.Authorities.Strings() {
		if shared.Authority(a).IsRoleMarker() {
			roles = append(roles, a[len(shared.RolePrefix):])
		} else {
			permissions = append(permissions, a)
		}
	}
	return LoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		Identity:    identity,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}
