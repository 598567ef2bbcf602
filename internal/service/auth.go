package service

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/repository"
	"github.com/iliyamo/entityhub/internal/utils"
)

// Messages returned by the password recovery flow.
const (
	MsgForgotPassword = "Check your email inbox"
	MsgResetPassword  = "Password was updated successfully"
)

// LoginResult is returned by SignIn and RefreshLogin. RefreshToken is empty
// for RefreshLogin since the refresh token is not rotated.
type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         model.Claims `json:"user"`
}

// RegisterInput is the registration payload. A nil Password registers a
// social account that cannot sign in with a password.
type RegisterInput struct {
	Name     string
	Email    string
	Password *string
}

// AuthService implements sign in, registration, refresh token bookkeeping
// and password recovery.
type AuthService struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   Mailer
	resetURL string
	log      *zap.Logger
}

// NewAuthService wires the auth flow. resetURL is the page the reset link
// points at; the token is appended as the `token` query parameter.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, mailer Mailer, resetURL string, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: resetURL,
		log:      log.Named("auth"),
	}
}

// SignIn checks the credentials and issues an access/refresh pair. An
// unknown email surfaces as NotFound, a wrong password as InvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (LoginResult, error) {
	email = repository.NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if !s.hasher.Compare(password, u.PasswordHash) {
		return LoginResult{}, errs.New(errs.ErrInvalidCredentials, errs.MsgWrongCreds)
	}

	claims := model.ClaimsOf(u)
	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := s.tokens.IssueRefresh(claims)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.SetCurrentRefreshToken(ctx, refresh.Token, email); err != nil {
		return LoginResult{}, err
	}
	s.log.Info("signed in", zap.String("user_id", u.ID))
	return LoginResult{AccessToken: access.Token, RefreshToken: refresh.Token, User: claims}, nil
}

// Register creates a user. The pre-insert lookup only short-circuits the
// common case; the unique index on email decides concurrent registrations.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := repository.NormalizeEmail(in.Email)

	var plain string
	if in.Password != nil {
		plain = *in.Password
	} else {
		random, err := utils.RandomPassword()
		if err != nil {
			return model.User{}, err
		}
		plain = random
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return model.User{}, err
	}

	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.User{}, errs.New(errs.ErrDuplicateEmail, errs.MsgEmailTaken)
	case !errors.Is(err, errs.ErrNotFound):
		return model.User{}, err
	}

	u := model.User{Name: in.Name, Email: email, PasswordHash: hash, Role: model.RoleUser}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// RefreshLogin issues a new access token for claims taken from an already
// verified refresh token.
func (s *AuthService) RefreshLogin(claims model.Claims) (LoginResult, error) {
	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: access.Token, User: claims}, nil
}

// SetCurrentRefreshToken stores the hash of token on the user, replacing any
// earlier one.
func (s *AuthService) SetCurrentRefreshToken(ctx context.Context, token, email string) error {
	hash, err := s.hasher.Hash(utils.HashRefreshRaw(token))
	if err != nil {
		return err
	}
	return s.users.UpdateByEmail(ctx, email, model.UserPatch{RefreshTokenHash: &hash})
}

// RemoveRefreshToken clears the stored refresh token hash.
func (s *AuthService) RemoveRefreshToken(ctx context.Context, email string) error {
	if err := s.users.UpdateByEmail(ctx, email, model.UserPatch{ClearRefreshToken: true}); err != nil {
		return err
	}
	s.log.Info("refresh token removed")
	return nil
}

// ValidateRefreshToken checks a presented refresh token against the hash
// stored for email and returns the current user.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, token, email string) (model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.New(errs.ErrInvalidToken, errs.MsgInvalidToken)
		}
		return model.User{}, err
	}
	if u.RefreshTokenHash == nil || !s.hasher.Compare(utils.HashRefreshRaw(token), *u.RefreshTokenHash) {
		s.log.Warn("refresh token rejected", zap.String("user_id", u.ID))
		return model.User{}, errs.New(errs.ErrInvalidToken, errs.MsgInvalidToken)
	}
	return u, nil
}

// ForgotPassword mails a reset link to the user. Delivery failures are
// logged and do not change the result.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	tok, err := s.tokens.IssueReset(u.Email, u.ID)
	if err != nil {
		return "", err
	}
	if err := s.mailer.SendResetPasswordEmail(ctx, u.Email, s.resetLink(tok.Token)); err != nil {
		s.log.Warn("reset mail not sent", zap.String("user_id", u.ID), zap.Error(err))
	}
	return MsgForgotPassword, nil
}

// ResetPassword sets a new password for the user named in a valid reset
// token. The old password is not required.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (string, error) {
	claims, err := s.tokens.ParseReset(token)
	if err != nil {
		return "", err
	}
	u, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateByEmail(ctx, u.Email, model.UserPatch{PasswordHash: &hash}); err != nil {
		return "", err
	}
	s.log.Info("password reset", zap.String("user_id", u.ID))
	return MsgResetPassword, nil
}

func (s *AuthService) resetLink(token string) string {
	return s.resetURL + "?token=" + url.QueryEscape(token)
}
