package handler

import (
	"encoding/json"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/repository"
	"github.com/iliyamo/entityhub/internal/service"
)

// HelperHandler exposes the pagination engine to admins.
type HelperHandler struct {
	Pages *service.Paginator
}

func NewHelperHandler(pages *service.Paginator) *HelperHandler {
	return &HelperHandler{Pages: pages}
}

// Paginated serves GET /v1/helpers/paginated. `where` is a JSON object of
// field equality conditions.
func (h *HelperHandler) Paginated(c echo.Context) error {
	where := repository.Where{}
	if raw := c.QueryParam("where"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &where); err != nil {
			return errs.New(errs.ErrInvalidParameter, errs.MsgWrongParam)
		}
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Pages.GetEntitiesPaginated(ctx, service.PageRequest{
		Entity:         c.QueryParam("entity"),
		Where:          where,
		Page:           page,
		SortBy:         c.QueryParam("sortBy"),
		SortOrder:      c.QueryParam("sortOrder"),
		FilterBy:       c.QueryParam("filterBy"),
		FilterContains: c.QueryParam("filterContains"),
	})
	if err != nil {
		return err
	}
	return respondSuccess(c, res, "")
}

func (h *HelperHandler) Entities(c echo.Context) error {
	return respondSuccess(c, h.Pages.AvailableEntities(), "")
}

func (h *HelperHandler) Fields(c echo.Context) error {
	fields, err := h.Pages.ModelFields(c.Param("entity"))
	if err != nil {
		return err
	}
	return respondSuccess(c, fields, "")
}
