package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbooks/internal/client/claims"
	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
)

// AuthService manages the signed-in session.
//
//   - Login: authenticate and remember the user and credentials.
//   - Signup: create an account; the user logs in afterwards.
//   - Logout: forget credentials and the signed-in user.
//   - CurrentUser: the signed-in user, or common.ErrNotLoggedIn.
//   - HandleUnauthenticated: drop the session after client.ErrUnauthenticated.
type AuthService interface {
	Login(ctx context.Context, in models.LoginInput) (models.User, error)
	Signup(ctx context.Context, in models.SignupInput) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
	HandleUnauthenticated(ctx context.Context) error
}

type authService struct {
	api    client.API
	tokens client.TokenStore
	meta   metadata.Repository
	log    logging.Logger
}

func NewAuthService(api client.API, tokens client.TokenStore, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{api: api, tokens: tokens, meta: meta, log: log}
}

// Login signs in. The user id and role come from the login response; when
// the response omits them they are read from the access token, and the login
// name is the last resort for the id.
func (s *authService) Login(ctx context.Context, in models.LoginInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}

	res, err := s.api.Login(ctx, in)
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	id, role := res.UserID, res.Role
	if id == "" || role == "" {
		if c, err := claims.Parse(res.AccessToken); err == nil {
			id = firstNonEmpty(id, c.UserID)
			role = firstNonEmpty(role, c.Role)
		} else {
			s.log.Debug(ctx, "access token carries no readable claims", "error", err)
		}
	}

	u := models.User{ID: firstNonEmpty(id, in.Email), Role: common.NormalizeRole(role)}
	if err := metadata.SetString(ctx, s.meta, common.MetaUserID, u.ID); err != nil {
		return models.User{}, err
	}
	if err := metadata.SetString(ctx, s.meta, common.MetaUserRole, u.Role); err != nil {
		return models.User{}, err
	}
	s.log.Info(ctx, "signed in", "user", u.ID, "role", u.Role)
	return u, nil
}

func (s *authService) Signup(ctx context.Context, in models.SignupInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.api.Signup(ctx, in); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

func (s *authService) Logout(ctx context.Context) error {
	return errors.Join(s.api.Logout(ctx), s.forgetUser(ctx))
}

func (s *authService) HandleUnauthenticated(ctx context.Context) error {
	s.log.Warn(ctx, "session expired")
	return errors.Join(s.tokens.ClearTokens(ctx), s.forgetUser(ctx))
}

func (s *authService) forgetUser(ctx context.Context) error {
	return metadata.DeleteKeys(ctx, s.meta, common.MetaUserID, common.MetaUserRole)
}

// CurrentUser requires both a remembered user and at least one credential.
func (s *authService) CurrentUser(ctx context.Context) (models.User, error) {
	id, err := metadata.GetString(ctx, s.meta, common.MetaUserID)
	if err != nil {
		return models.User{}, err
	}
	role, err := metadata.GetString(ctx, s.meta, common.MetaUserRole)
	if err != nil {
		return models.User{}, err
	}
	access, refresh, err := s.tokens.Tokens(ctx)
	if err != nil {
		return models.User{}, err
	}
	if id == "" || (access == "" && refresh == "") {
		return models.User{}, common.ErrNotLoggedIn
	}
	return models.User{ID: id, Role: common.NormalizeRole(role)}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
