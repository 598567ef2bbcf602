package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/middleware"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/service"
)

// listQuery reads the paging parameters shared by list endpoints. A missing
// or malformed page becomes 0, which the paginator treats as page 1.
func listQuery(c echo.Context) service.ListQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return service.ListQuery{
		Page:           page,
		SortBy:         c.QueryParam("sortBy"),
		SortOrder:      c.QueryParam("sortOrder"),
		FilterBy:       c.QueryParam("filterBy"),
		FilterContains: c.QueryParam("filterContains"),
	}
}

func mustActor(c echo.Context) (model.Claims, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return model.Claims{}, errs.New(errs.ErrUnauthorized, "Missing bearer token")
	}
	return actor, nil
}
