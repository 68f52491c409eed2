package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/idx"
	"golang.org/x/oauth2"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// OAuthService handles the Google login variant. It differs from password
// login only in how the identity is established: an authorization code is
// exchanged upstream, and an unknown verified email gets a just-in-time
// local account. Both variants converge on SessionService.IssueSessionFor,
// so lockout and the revocation cascade treat provider sessions like any
// other.
type OAuthService struct {
	Config   *oauth2.Config
	Store    store.Store
	Sessions *SessionService
	Audit    *AuditService

	// UserinfoURL overrides the Google userinfo endpoint in tests.
	UserinfoURL string
}

type providerIdentity struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthCodeURL returns the provider consent URL for the given state value.
func (s *OAuthService) AuthCodeURL(state string) string {
	return s.Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Login exchanges the authorization code, fetches the upstream identity and
// issues a local session. Exchange and userinfo failures surface as
// ErrUpstreamProvider with the detail preserved for the server log only.
func (s *OAuthService) Login(ctx context.Context, code, ip string) (Session, error) {
	token, err := s.Config.Exchange(ctx, code)
	if err != nil {
		return Session{}, fmt.Errorf("%w: code exchange: %v", ErrUpstreamProvider, err)
	}

	identity, err := s.fetchIdentity(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if identity.Email == "" || !identity.EmailVerified {
		return Session{}, fmt.Errorf("%w: provider returned no verified email", ErrUpstreamProvider)
	}

	user, err := s.findOrCreateUser(ctx, identity)
	if err != nil {
		return Session{}, err
	}

	session, err := s.Sessions.IssueSessionFor(ctx, user)
	if err != nil {
		return Session{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:   &user.ID,
		Action:   "auth.login.google",
		Resource: "session",
		Status:   domain.AuditStatusSuccess,
		IP:       ip,
	})
	return session, nil
}

func (s *OAuthService) fetchIdentity(ctx context.Context, token *oauth2.Token) (providerIdentity, error) {
	url := s.UserinfoURL
	if url == "" {
		url = googleUserinfoURL
	}

	client := s.Config.Client(ctx, token)
	resp, err := client.Get(url)
	if err != nil {
		return providerIdentity{}, fmt.Errorf("%w: userinfo: %v", ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providerIdentity{}, fmt.Errorf("%w: userinfo status %d", ErrUpstreamProvider, resp.StatusCode)
	}

	var identity providerIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return providerIdentity{}, fmt.Errorf("%w: decode userinfo: %v", ErrUpstreamProvider, err)
	}
	return identity, nil
}

// findOrCreateUser matches the verified upstream email against local users,
// creating one just-in-time when absent: random unusable password,
// pre-verified email, the platform's default role attached.
func (s *OAuthService) findOrCreateUser(ctx context.Context, identity providerIdentity) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	password, err := cryptox.GeneratePassword()
	if err != nil {
		return domain.User{}, err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	var roleID *string
	if role, err := s.Store.Roles().GetRoleByName(ctx, domain.RoleMember); err == nil {
		roleID = &role.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user = domain.User{
		ID:              idx.New().String(),
		Email:           identity.Email,
		PasswordHash:    hash,
		DisplayName:     identity.Name,
		Image:           identity.Picture,
		RoleID:          roleID,
		EmailVerifiedAt: &now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race against a concurrent first login; use the winner.
			return s.Store.Users().GetUserByEmail(ctx, identity.Email)
		}
		return domain.User{}, err
	}

	s.Audit.Record(ctx, domain.AuditLog{
		UserID:     &user.ID,
		Action:     "users.create.google",
		Resource:   "user",
		ResourceID: user.ID,
		Status:     domain.AuditStatusSuccess,
	})
	return user, nil
}
