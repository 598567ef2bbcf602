package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/repository"
)

// memUsers is an in-memory credential store with a unique email index.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]model.User{}} }

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return errs.New(errs.ErrDuplicateEmail, errs.MsgEmailTaken)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) UpdateByEmail(ctx context.Context, email string, patch model.UserPatch) error {
	u, err := m.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return m.UpdateByID(ctx, u.ID, patch)
}

func (m *memUsers) UpdateByID(_ context.Context, id string, patch model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	switch {
	case patch.ClearRefreshToken:
		u.RefreshTokenHash = nil
	case patch.RefreshTokenHash != nil:
		h := *patch.RefreshTokenHash
		u.RefreshTokenHash = &h
	}
	m.users[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
	}
	delete(m.users, id)
	return nil
}

// blindUsers never finds a user by email, as when a concurrent registration
// commits between the lookup and the insert.
type blindUsers struct{ *memUsers }

func (b blindUsers) GetByEmail(context.Context, string) (model.User, error) {
	return model.User{}, errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
}

type sentMail struct{ to, link string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendResetPasswordEmail(_ context.Context, to, link string) error {
	f.sent = append(f.sent, sentMail{to: to, link: link})
	return f.err
}

type memEntities struct {
	mu   sync.Mutex
	rows map[string]model.Entity
}

func newMemEntities() *memEntities { return &memEntities{rows: map[string]model.Entity{}} }

func (m *memEntities) Create(_ context.Context, e *model.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = repository.DefaultEntityStatus
	}
	m.rows[e.ID] = *e
	return nil
}

func (m *memEntities) GetByID(_ context.Context, id string) (model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return model.Entity{}, errs.New(errs.ErrNotFound, errs.MsgEntityNotFound)
	}
	return e, nil
}

func (m *memEntities) List(context.Context) ([]model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Entity, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEntities) Update(_ context.Context, id string, p model.EntityPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return errs.New(errs.ErrNotFound, errs.MsgEntityNotFound)
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	m.rows[id] = e
	return nil
}

func (m *memEntities) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errs.New(errs.ErrNotFound, errs.MsgEntityNotFound)
	}
	delete(m.rows, id)
	return nil
}

// fakePager serves a fixed row set and records every call.
type fakePager struct {
	rows    []any
	windows []repository.Window
	counts  []repository.Where
}

func (f *fakePager) FindPage(_ context.Context, w repository.Window) ([]any, error) {
	f.windows = append(f.windows, w)
	if w.Skip >= len(f.rows) {
		return []any{}, nil
	}
	end := w.Skip + w.Take
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[w.Skip:end], nil
}

func (f *fakePager) Count(_ context.Context, where repository.Where) (int64, error) {
	f.counts = append(f.counts, where)
	return int64(len(f.rows)), nil
}

func (f *fakePager) calls() int { return len(f.windows) + len(f.counts) }

var widgetColumns = repository.Columns{
	{Field: "id", Name: "id"},
	{Field: "name", Name: "name"},
	{Field: "userId", Name: "user_id"},
	{Field: "createdAt", Name: "created_at"},
}

func rowsOf(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

type memActivities struct {
	mu    sync.Mutex
	rows  map[string]model.Activity
	types []model.ActivityType
}

func newMemActivities(types ...model.ActivityType) *memActivities {
	return &memActivities{rows: map[string]model.Activity{}, types: types}
}

func (m *memActivities) Create(_ context.Context, a *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.FilterGender == "" {
		a.FilterGender = model.GenderAny
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memActivities) GetByID(_ context.Context, id string) (model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return model.Activity{}, errs.New(errs.ErrNotFound, errs.MsgActivityNotFound)
	}
	return a, nil
}

func (m *memActivities) List(context.Context) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Activity, 0, len(m.rows))
	for _, a := range m.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memActivities) Update(_ context.Context, id string, p model.ActivityPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return errs.New(errs.ErrNotFound, errs.MsgActivityNotFound)
	}
	if p.TimeFrom != nil {
		a.TimeFrom = *p.TimeFrom
	}
	if p.TimeTo != nil {
		a.TimeTo = *p.TimeTo
	}
	if p.FilterGender != nil {
		a.FilterGender = *p.FilterGender
	}
	m.rows[id] = a
	return nil
}

func (m *memActivities) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errs.New(errs.ErrNotFound, errs.MsgActivityNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memActivities) ListTypes(context.Context) ([]model.ActivityType, error) {
	return m.types, nil
}
