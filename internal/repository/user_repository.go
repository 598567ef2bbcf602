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

// userColumns are the scalar fields exposed for filtering, sorting and
// listing. Hash columns are deliberately absent.
var userColumns = Columns{
	{"id", "id"},
	{"email", "email"},
	{"name", "name"},
	{"role", "role"},
	{"createdAt", "created_at"},
	{"updatedAt", "updated_at"},
}

const userSelect = "SELECT id, email, name, password_hash, role, refresh_token_hash, created_at, updated_at FROM users"

// UserRepo is the credential store backed by the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u. ID, Email normalisation, default role and timestamps are
// filled in. A duplicate email yields errs.ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.Email = NormalizeEmail(u.Email)
	now := time.Now().UTC().Truncate(time.Millisecond)
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return errs.New(errs.ErrDuplicateEmail, errs.MsgEmailTaken)
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+" WHERE email=? LIMIT 1", NormalizeEmail(email)))
	return u, notFound(err, errs.MsgUserNotFound)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+" WHERE id=? LIMIT 1", id))
	return u, notFound(err, errs.MsgUserNotFound)
}

// List returns every user ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, userSelect+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateByEmail applies patch to the user identified by email.
func (r *UserRepo) UpdateByEmail(ctx context.Context, email string, patch model.UserPatch) error {
	return r.update(ctx, "email", NormalizeEmail(email), patch)
}

// UpdateByID applies patch to the user identified by id.
func (r *UserRepo) UpdateByID(ctx context.Context, id string, patch model.UserPatch) error {
	return r.update(ctx, "id", id, patch)
}

func (r *UserRepo) update(ctx context.Context, key, value string, patch model.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *patch.Name)
	}
	if patch.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, string(*patch.Role))
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *patch.PasswordHash)
	}
	switch {
	case patch.ClearRefreshToken:
		sets = append(sets, "refresh_token_hash=NULL")
	case patch.RefreshTokenHash != nil:
		sets = append(sets, "refresh_token_hash=?")
		args = append(args, *patch.RefreshTokenHash)
	}
	sets = append(sets, "updated_at=?")
	args = append(args, time.Now().UTC().Truncate(time.Millisecond), value)

	res, err := r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE "+key+"=?", args...)
	if err != nil {
		return err
	}
	return expectOne(res, errs.MsgUserNotFound)
}

// Delete removes a user by id. Owned rows cascade in the schema.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return expectOne(res, errs.MsgUserNotFound)
}

// Model describes the users table to the pagination engine.
func (r *UserRepo) Model() Model {
	return Model{
		Name:    "user",
		Columns: userColumns,
		Pager: &tablePager[model.User]{
			db:    r.DB,
			table: "users",
			cols:  userColumns,
			scan:  scanPublicUser,
		},
	}
}

func scanUser(s scanner) (model.User, error) {
	var (
		u       model.User
		role    string
		refresh sql.NullString
	)
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	if refresh.Valid {
		u.RefreshTokenHash = &refresh.String
	}
	return u, nil
}

// scanPublicUser scans the userColumns projection.
func scanPublicUser(s scanner) (model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}
