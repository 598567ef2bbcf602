package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/service"
)

// UserHandler serves /v1/users.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type userUpdateReq struct {
	Name *string     `json:"name"`
	Role *model.Role `json:"role"`
}

func (r *userUpdateReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(3, 50)),
		validation.Field(&r.Role, validation.In(model.RoleUser, model.RoleAdmin)),
	)
}

// FindAll pages through all users. Admin only.
func (h *UserHandler) FindAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.Users.FindAll(ctx, listQuery(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, page, "")
}

func (h *UserHandler) FindOne(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.FindOne(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return respondSuccess(c, u, "")
}

func (h *UserHandler) Update(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req userUpdateReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Update(ctx, actor, c.Param("id"), service.UserUpdate{Name: req.Name, Role: req.Role})
	if err != nil {
		return err
	}
	return respondSuccess(c, u, "User updated successfully")
}

func (h *UserHandler) Remove(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.Remove(ctx, actor, c.Param("id")); err != nil {
		return err
	}
	return respondOK(c, "User deleted successfully")
}
