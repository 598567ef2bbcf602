package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/service"
)

// EntityHandler serves /v1/entities.
type EntityHandler struct {
	Entities *service.EntityService
}

func NewEntityHandler(entities *service.EntityService) *EntityHandler {
	return &EntityHandler{Entities: entities}
}

type entityReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

func (r *entityReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Status, validation.Length(1, 32)),
	)
}

type entityPatchReq struct {
	model.EntityPatch
}

func (r *entityPatchReq) Validate() error {
	return validation.ValidateStruct(&r.EntityPatch,
		validation.Field(&r.EntityPatch.Name, validation.Length(1, 255)),
		validation.Field(&r.EntityPatch.Status, validation.Length(1, 32)),
	)
}

func (h *EntityHandler) Create(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req entityReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Entities.Create(ctx, actor, model.Entity{Name: req.Name, Description: req.Description, Status: req.Status})
	if err != nil {
		return err
	}
	return respondCreated(c, e)
}

func (h *EntityHandler) FindAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Entities.FindAll(ctx)
	if err != nil {
		return err
	}
	return respondSuccess(c, list, "")
}

// FindByUserID pages through the entities owned by :userId.
func (h *EntityHandler) FindByUserID(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.Entities.FindByUserID(ctx, c.Param("userId"), listQuery(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, page, "")
}

func (h *EntityHandler) FindOne(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Entities.FindOne(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return respondSuccess(c, e, "")
}

func (h *EntityHandler) Update(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req entityPatchReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.Entities.Update(ctx, actor, c.Param("id"), req.EntityPatch)
	if err != nil {
		return err
	}
	return respondSuccess(c, e, "Entity updated successfully")
}

func (h *EntityHandler) Remove(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Entities.Remove(ctx, actor, c.Param("id")); err != nil {
		return err
	}
	return respondOK(c, "Entity deleted successfully")
}
