package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

var entityColumns = Columns{
	{"id", "id"},
	{"name", "name"},
	{"description", "description"},
	{"status", "status"},
	{"userId", "user_id"},
	{"createdAt", "created_at"},
	{"updatedAt", "updated_at"},
}

const entitySelect = "SELECT id, name, description, status, user_id, created_at, updated_at FROM entities"

// DefaultEntityStatus is stored when an entity is created without a status.
const DefaultEntityStatus = "active"

// EntityRepo encapsulates all database queries related to entities.
type EntityRepo struct {
	db *sql.DB
}

func NewEntityRepo(db *sql.DB) *EntityRepo {
	return &EntityRepo{db: db}
}

// Create inserts e and fills in its id, default status and timestamps.
func (r *EntityRepo) Create(ctx context.Context, e *model.Entity) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if strings.TrimSpace(e.Status) == "" {
		e.Status = DefaultEntityStatus
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	e.CreatedAt, e.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO entities (id, name, description, status, user_id, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		e.ID, e.Name, e.Description, e.Status, e.UserID, e.CreatedAt, e.UpdatedAt)
	return badReference(err)
}

// GetByID fetches an entity by id.
func (r *EntityRepo) GetByID(ctx context.Context, id string) (model.Entity, error) {
	e, err := scanEntity(r.db.QueryRowContext(ctx, entitySelect+" WHERE id = ?", id))
	return e, notFound(err, errs.MsgEntityNotFound)
}

// List returns all entities ordered by creation time.
func (r *EntityRepo) List(ctx context.Context) ([]model.Entity, error) {
	rows, err := r.db.QueryContext(ctx, entitySelect+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Entity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update applies patch to the entity with the given id.
func (r *EntityRepo) Update(ctx context.Context, id string, patch model.EntityPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Truncate(time.Millisecond), id)

	res, err := r.db.ExecContext(ctx, "UPDATE entities SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return expectOne(res, errs.MsgEntityNotFound)
}

// Delete removes an entity by id.
func (r *EntityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM entities WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, errs.MsgEntityNotFound)
}

// Model describes the entities table to the pagination engine.
func (r *EntityRepo) Model() Model {
	return Model{
		Name:    "entity",
		Columns: entityColumns,
		Pager:   &tablePager[model.Entity]{db: r.db, table: "entities", cols: entityColumns, scan: scanEntity},
	}
}

func scanEntity(s scanner) (model.Entity, error) {
	var (
		e    model.Entity
		desc sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Name, &desc, &e.Status, &e.UserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return model.Entity{}, err
	}
	if desc.Valid {
		e.Description = &desc.String
	}
	return e, nil
}
