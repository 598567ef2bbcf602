// Package service holds the application logic that sits between HTTP
// handlers and repositories: the auth flow, the ownership rule for owned
// records, and the generic pagination engine.
package service

import (
	"context"

	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/utils"
)

// UserStore is the credential store used by the auth flow.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateByEmail(ctx context.Context, email string, patch model.UserPatch) error
}

// PasswordHasher hashes and compares secrets.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// TokenIssuer signs the tokens handed out by the auth flow.
type TokenIssuer interface {
	IssueAccess(c model.Claims) (utils.SignedToken, error)
	IssueRefresh(c model.Claims) (utils.SignedToken, error)
	IssueReset(email, userID string) (utils.SignedToken, error)
	ParseReset(raw string) (utils.ResetClaims, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendResetPasswordEmail(ctx context.Context, to, link string) error
}

// ListQuery carries the optional paging parameters of list endpoints.
type ListQuery struct {
	Page           int
	SortBy         string
	SortOrder      string
	FilterBy       string
	FilterContains string
}
