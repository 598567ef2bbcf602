package service

import (
	"context"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// ActivityStore persists activities and their types.
type ActivityStore interface {
	Create(ctx context.Context, a *model.Activity) error
	GetByID(ctx context.Context, id string) (model.Activity, error)
	List(ctx context.Context) ([]model.Activity, error)
	Update(ctx context.Context, id string, patch model.ActivityPatch) error
	Delete(ctx context.Context, id string) error
	ListTypes(ctx context.Context) ([]model.ActivityType, error)
}

type ActivityService struct {
	store ActivityStore
	pages *Paginator
}

func NewActivityService(store ActivityStore, pages *Paginator) *ActivityService {
	return &ActivityService{store: store, pages: pages}
}

// Create stores a owned by the actor.
func (s *ActivityService) Create(ctx context.Context, actor model.Claims, a model.Activity) (model.Activity, error) {
	a.ID = ""
	a.UserID = actor.ID
	if err := s.store.Create(ctx, &a); err != nil {
		return model.Activity{}, err
	}
	return a, nil
}

func (s *ActivityService) FindAll(ctx context.Context) ([]model.Activity, error) {
	return s.store.List(ctx)
}

func (s *ActivityService) FindAllTypes(ctx context.Context) ([]model.ActivityType, error) {
	return s.store.ListTypes(ctx)
}

func (s *ActivityService) FindOne(ctx context.Context, id string) (model.Activity, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ActivityService) FindByUserID(ctx context.Context, userID string, q ListQuery) (model.Page, error) {
	return s.pages.ownedBy(ctx, "activity", userID, q)
}

func (s *ActivityService) Update(ctx context.Context, actor model.Claims, id string, patch model.ActivityPatch) (model.Activity, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Activity{}, err
	}
	if !mayMutate(actor, a) {
		return model.Activity{}, errs.New(errs.ErrUnauthorized, errs.MsgCantEdit)
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return model.Activity{}, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *ActivityService) Remove(ctx context.Context, actor model.Claims, id string) error {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !mayMutate(actor, a) {
		return errs.New(errs.ErrUnauthorized, errs.MsgCantDelete)
	}
	return s.store.Delete(ctx, id)
}
