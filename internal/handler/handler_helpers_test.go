package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/middleware"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/repository"
	"github.com/iliyamo/entityhub/internal/service"
	"github.com/iliyamo/entityhub/internal/utils"
)

// memUsers is an in-memory credential store keyed by email.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[repository.NormalizeEmail(email)]
	if !ok {
		return model.User{}, errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return errs.New(errs.ErrDuplicateEmail, errs.MsgEmailTaken)
	}
	u.ID = uuid.NewString()
	m.users[u.Email] = *u
	return nil
}

func (m *memUsers) UpdateByEmail(_ context.Context, email string, p model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return errs.New(errs.ErrNotFound, errs.MsgUserNotFound)
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.RefreshTokenHash != nil {
		u.RefreshTokenHash = p.RefreshTokenHash
	}
	if p.ClearRefreshToken {
		u.RefreshTokenHash = nil
	}
	m.users[email] = u
	return nil
}

// memEntities is an in-memory entity store.
type memEntities struct {
	mu   sync.Mutex
	rows map[string]model.Entity
}

func (m *memEntities) Create(_ context.Context, e *model.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	if e.Status == "" {
		e.Status = "active"
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
	return out, nil
}

func (m *memEntities) Update(_ context.Context, id string, p model.EntityPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.rows[id]
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	m.rows[id] = e
	return nil
}

func (m *memEntities) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// staticPager serves a fixed number of rows named row-N.
type staticPager struct {
	total int
	last  repository.Window
}

func (p *staticPager) FindPage(_ context.Context, w repository.Window) ([]any, error) {
	p.last = w
	out := []any{}
	for i := w.Skip; i < w.Skip+w.Take && i < p.total; i++ {
		out = append(out, map[string]any{"name": "row"})
	}
	return out, nil
}

func (p *staticPager) Count(context.Context, repository.Where) (int64, error) {
	return int64(p.total), nil
}

type testServer struct {
	e        *echo.Echo
	issuer   *utils.TokenIssuer
	users    *memUsers
	entities *memEntities
	pager    *staticPager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)
	s := &testServer{
		issuer: utils.NewTokenIssuer(utils.TokenConfig{
			AccessSecret:  "access-secret",
			AccessTTL:     time.Minute,
			RefreshSecret: "refresh-secret",
			RefreshTTL:    time.Hour,
			ResetTTL:      time.Minute,
		}),
		users:    &memUsers{users: map[string]model.User{}},
		entities: &memEntities{rows: map[string]model.Entity{}},
		pager:    &staticPager{total: 25},
	}
	registry := repository.NewRegistry(nil, repository.Model{
		Name:    "widget",
		Columns: repository.Columns{{Field: "id", Name: "id"}, {Field: "name", Name: "name"}, {Field: "userId", Name: "user_id"}},
		Pager:   s.pager,
	})
	pages := service.NewPaginator(registry, 0)
	authSvc := service.NewAuthService(s.users, utils.NewBcryptHasher(4), s.issuer, nopMailer{}, "https://app.test/reset", log)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	jwt := middleware.JWTAuth(s.issuer)

	a := NewAuthHandler(authSvc, s.issuer)
	e.POST("/v1/auth/login", a.Login)
	e.POST("/v1/auth/register", a.Register)
	e.POST("/v1/auth/refresh", a.Refresh)
	e.POST("/v1/auth/logout", a.Logout, jwt)
	e.GET("/v1/auth/profile", a.Profile, jwt)
	e.POST("/v1/auth/forgot-password", a.ForgotPassword)

	ent := NewEntityHandler(service.NewEntityService(s.entities, pages))
	e.POST("/v1/entities", ent.Create, jwt)
	e.GET("/v1/entities/:id", ent.FindOne)
	e.PATCH("/v1/entities/:id", ent.Update, jwt)
	e.DELETE("/v1/entities/:id", ent.Remove, jwt)

	hp := NewHelperHandler(pages)
	admin := middleware.RequireRole(model.RoleAdmin)
	e.GET("/v1/helpers/paginated", hp.Paginated, jwt, admin)
	e.GET("/v1/helpers/entities", hp.Entities, jwt, admin)
	e.GET("/v1/helpers/fields/:entity", hp.Fields, jwt, admin)

	e.GET("/healthz", Health(nil))
	s.e = e
	return s
}

type nopMailer struct{}

func (nopMailer) SendResetPasswordEmail(context.Context, string, string) error { return nil }

// response is the decoded envelope with data kept raw.
type response struct {
	Code    int
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, target, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var res response
	if rec.Body.Len() > 0 && rec.Header().Get(echo.HeaderContentType) != echo.MIMETextPlainCharsetUTF8 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	res.Code = rec.Code
	return res
}

func (s *testServer) token(t *testing.T, c model.Claims) string {
	t.Helper()
	tok, err := s.issuer.IssueAccess(c)
	require.NoError(t, err)
	return tok.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
