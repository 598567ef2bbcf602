package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/service"
)

// RefreshParser verifies refresh tokens.
type RefreshParser interface {
	ParseRefresh(raw string) (model.Claims, error)
}

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Tokens RefreshParser
}

func NewAuthHandler(auth *service.AuthService, tokens RefreshParser) *AuthHandler {
	return &AuthHandler{Auth: auth, Tokens: tokens}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type registerReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

func (r *registerReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 50), is.Email),
		validation.Field(&r.Password, validation.NotNil, validation.Length(3, 30)),
	)
}

type socialRegisterReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *socialRegisterReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 50), is.Email),
	)
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *refreshReq) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.RefreshToken, validation.Required))
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

func (r *forgotPasswordReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 50), is.Email),
	)
}

type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *resetPasswordReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, validation.Length(6, 2048)),
		validation.Field(&r.Password, validation.Required, validation.Length(3, 30)),
	)
}

// ----- handlers -----

// Login verifies credentials and returns an access/refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSuccess(c, res, "")
}

// Register creates a password account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return respondCreated(c, u)
}

// SocialRegister creates an account without a usable password.
func (h *AuthHandler) SocialRegister(c echo.Context) error {
	var req socialRegisterReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return respondCreated(c, u)
}

// Refresh exchanges the current refresh token for a new access token. The
// token must verify and match the hash stored for its user.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	claims, err := h.Tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Auth.ValidateRefreshToken(ctx, req.RefreshToken, claims.Email)
	if err != nil {
		return err
	}
	claims.Name = u.Name
	res, err := h.Auth.RefreshLogin(claims)
	if err != nil {
		return err
	}
	return respondSuccess(c, res, "")
}

// Logout drops the caller's refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Auth.RemoveRefreshToken(ctx, actor.Email); err != nil {
		return err
	}
	return respondOK(c, "Logged out")
}

// Profile returns the caller's token claims.
func (h *AuthHandler) Profile(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	return respondSuccess(c, actor, "")
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.Auth.ForgotPassword(ctx, req.Email)
	if err != nil {
		return err
	}
	return respondOK(c, msg)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.Auth.ResetPassword(ctx, req.Token, req.Password)
	if err != nil {
		return err
	}
	return respondOK(c, msg)
}
