package service

import (
	"context"
	"math"
	"strings"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/repository"
)

// DefaultPageSize applies to entities without an override.
const DefaultPageSize = 10

// PageRequest selects one page of a registered entity.
type PageRequest struct {
	Entity         string
	Where          repository.Where
	Page           int
	SortBy         string
	SortOrder      string
	FilterBy       string
	FilterContains string
}

// Paginator serves paginated reads of any entity in the registry.
type Paginator struct {
	registry        *repository.Registry
	defaultPageSize int
}

func NewPaginator(registry *repository.Registry, defaultPageSize int) *Paginator {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	return &Paginator{registry: registry, defaultPageSize: defaultPageSize}
}

// GetEntitiesPaginated returns one window of req.Entity together with the
// unwindowed total. Every field name is validated before the store is hit.
//
// TotalPages is total/pageSize floored at 1 without rounding up.
func (p *Paginator) GetEntitiesPaginated(ctx context.Context, req PageRequest) (model.Page, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	m, ok := p.registry.Lookup(req.Entity)
	if !ok {
		return model.Page{}, errs.New(errs.ErrUnknownEntity, errs.MsgWrongEntity)
	}
	pageSize := m.PageSize
	if pageSize <= 0 {
		pageSize = p.defaultPageSize
	}
	if page-1 > math.MaxInt/pageSize {
		return model.Page{}, errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
	}

	where := make(repository.Where, len(req.Where)+1)
	for k, v := range req.Where {
		if _, ok := m.Columns.Lookup(k); !ok {
			return model.Page{}, errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
		}
		where[k] = v
	}
	if req.FilterBy != "" {
		if _, ok := m.Columns.Lookup(req.FilterBy); !ok {
			return model.Page{}, errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
		}
		where[req.FilterBy] = repository.Contains{Value: req.FilterContains}
	}

	var order *repository.Order
	if req.SortBy != "" {
		if _, ok := m.Columns.Lookup(req.SortBy); !ok {
			return model.Page{}, errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
		}
		dir := strings.ToLower(req.SortOrder)
		if dir != "" && dir != "asc" && dir != "desc" {
			return model.Page{}, errs.New(errs.ErrInvalidParameter, errs.MsgWrongOrder)
		}
		order = &repository.Order{Field: req.SortBy, Direction: dir}
	}

	data, err := m.Pager.FindPage(ctx, repository.Window{
		Where: where,
		Skip:  (page - 1) * pageSize,
		Take:  pageSize,
		Order: order,
	})
	if err != nil {
		return model.Page{}, err
	}
	total, err := m.Pager.Count(ctx, where)
	if err != nil {
		return model.Page{}, err
	}

	return model.Page{
		Data: data,
		Pagination: model.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: math.Max(float64(total)/float64(pageSize), 1),
		},
	}, nil
}

// ModelFields lists the scalar fields of entity.
func (p *Paginator) ModelFields(entity string) ([]string, error) {
	fields, ok := p.registry.FieldsOf(entity)
	if !ok {
		return nil, errs.New(errs.ErrUnknownEntity, errs.MsgWrongEntity)
	}
	return fields, nil
}

// AvailableEntities lists every registered entity name.
func (p *Paginator) AvailableEntities() []string {
	return p.registry.Names()
}

func (p *Paginator) ownedBy(ctx context.Context, entity, userID string, q ListQuery) (model.Page, error) {
	return p.GetEntitiesPaginated(ctx, PageRequest{
		Entity:         entity,
		Where:          repository.Where{"userId": userID},
		Page:           q.Page,
		SortBy:         q.SortBy,
		SortOrder:      q.SortOrder,
		FilterBy:       q.FilterBy,
		FilterContains: q.FilterContains,
	})
}
