package service

import (
	"context"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// UserDirectory is the user store as seen by account management.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateByID(ctx context.Context, id string, patch model.UserPatch) error
	Delete(ctx context.Context, id string) error
}

// UserUpdate lists the profile fields a caller may change. Only admins may
// change a role; resending the current one is allowed.
type UserUpdate struct {
	Name *string
	Role *model.Role
}

// UserService manages user accounts. A user owns its own record.
type UserService struct {
	users UserDirectory
	pages *Paginator
}

func NewUserService(users UserDirectory, pages *Paginator) *UserService {
	return &UserService{users: users, pages: pages}
}

func (s *UserService) FindOne(ctx context.Context, id string) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// FindAll pages through every user.
func (s *UserService) FindAll(ctx context.Context, q ListQuery) (model.Page, error) {
	return s.pages.GetEntitiesPaginated(ctx, PageRequest{
		Entity:         "user",
		Page:           q.Page,
		SortBy:         q.SortBy,
		SortOrder:      q.SortOrder,
		FilterBy:       q.FilterBy,
		FilterContains: q.FilterContains,
	})
}

func (s *UserService) Update(ctx context.Context, actor model.Claims, id string, in UserUpdate) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !mayMutate(actor, u) {
		return model.User{}, errs.New(errs.ErrUnauthorized, errs.MsgCantEdit)
	}
	if in.Role != nil && *in.Role != u.Role && actor.Role != model.RoleAdmin {
		return model.User{}, errs.New(errs.ErrForbidden, errs.MsgForbidden)
	}
	if err := s.users.UpdateByID(ctx, id, model.UserPatch{Name: in.Name, Role: in.Role}); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Remove(ctx context.Context, actor model.Claims, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !mayMutate(actor, u) {
		return errs.New(errs.ErrUnauthorized, errs.MsgCantDelete)
	}
	return s.users.Delete(ctx, id)
}
