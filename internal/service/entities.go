package service

import (
	"context"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// EntityStore persists entities.
type EntityStore interface {
	Create(ctx context.Context, e *model.Entity) error
	GetByID(ctx context.Context, id string) (model.Entity, error)
	List(ctx context.Context) ([]model.Entity, error)
	Update(ctx context.Context, id string, patch model.EntityPatch) error
	Delete(ctx context.Context, id string) error
}

// EntityService manages entities on behalf of an authenticated actor.
type EntityService struct {
	store EntityStore
	pages *Paginator
}

func NewEntityService(store EntityStore, pages *Paginator) *EntityService {
	return &EntityService{store: store, pages: pages}
}

// Create stores e owned by the actor.
func (s *EntityService) Create(ctx context.Context, actor model.Claims, e model.Entity) (model.Entity, error) {
	e.ID = ""
	e.UserID = actor.ID
	if err := s.store.Create(ctx, &e); err != nil {
		return model.Entity{}, err
	}
	return e, nil
}

func (s *EntityService) FindAll(ctx context.Context) ([]model.Entity, error) {
	return s.store.List(ctx)
}

func (s *EntityService) FindOne(ctx context.Context, id string) (model.Entity, error) {
	return s.store.GetByID(ctx, id)
}

// FindByUserID pages through the entities owned by userID.
func (s *EntityService) FindByUserID(ctx context.Context, userID string, q ListQuery) (model.Page, error) {
	return s.pages.ownedBy(ctx, "entity", userID, q)
}

// Update applies patch when the actor may mutate the entity.
func (s *EntityService) Update(ctx context.Context, actor model.Claims, id string, patch model.EntityPatch) (model.Entity, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Entity{}, err
	}
	if !mayMutate(actor, e) {
		return model.Entity{}, errs.New(errs.ErrUnauthorized, errs.MsgCantEdit)
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return model.Entity{}, err
	}
	return s.store.GetByID(ctx, id)
}

// Remove deletes the entity when the actor may mutate it.
func (s *EntityService) Remove(ctx context.Context, actor model.Claims, id string) error {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !mayMutate(actor, e) {
		return errs.New(errs.ErrUnauthorized, errs.MsgCantDelete)
	}
	return s.store.Delete(ctx, id)
}
