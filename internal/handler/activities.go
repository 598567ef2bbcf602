package handler

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/service"
)

// clock matches HH:MM in 24h form.
var clock = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var genders = []any{model.GenderMale, model.GenderFemale, model.GenderAny}

// jsonArray accepts a raw JSON array or null.
var jsonArray = validation.By(func(v any) error {
	var raw json.RawMessage
	switch t := v.(type) {
	case json.RawMessage:
		raw = t
	case *json.RawMessage:
		if t == nil {
			return nil
		}
		raw = *t
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var arr []any
	if err := json.Unmarshal(raw, &arr); err != nil {
		return errors.New("must be a JSON array")
	}
	return nil
})

// ActivityHandler serves /v1/activities.
type ActivityHandler struct {
	Activities *service.ActivityService
}

func NewActivityHandler(activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{Activities: activities}
}

type activityReq struct {
	TypeID         string          `json:"typeId"`
	Weekdays       json.RawMessage `json:"weekdays"`
	Date           *time.Time      `json:"date"`
	IsAnyDate      bool            `json:"isAnyDate"`
	TimeFrom       string          `json:"timeFrom"`
	TimeTo         string          `json:"timeTo"`
	FilterGender   model.Gender    `json:"filterGender"`
	FilterAgeFrom  *int            `json:"filterAgeFrom"`
	FilterAgeTo    *int            `json:"filterAgeTo"`
	FilterLocation *int            `json:"filterLocation"`
}

func (r *activityReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TypeID, validation.Required),
		validation.Field(&r.Weekdays, jsonArray),
		validation.Field(&r.TimeFrom, validation.Required, validation.Match(clock)),
		validation.Field(&r.TimeTo, validation.Required, validation.Match(clock)),
		validation.Field(&r.FilterGender, validation.In(genders...)),
		validation.Field(&r.FilterAgeFrom, validation.Min(0)),
		validation.Field(&r.FilterAgeTo, validation.Min(0)),
	)
}

func (r *activityReq) activity() model.Activity {
	return model.Activity{
		TypeID:         r.TypeID,
		Weekdays:       r.Weekdays,
		Date:           r.Date,
		IsAnyDate:      r.IsAnyDate,
		TimeFrom:       r.TimeFrom,
		TimeTo:         r.TimeTo,
		FilterGender:   r.FilterGender,
		FilterAgeFrom:  r.FilterAgeFrom,
		FilterAgeTo:    r.FilterAgeTo,
		FilterLocation: r.FilterLocation,
	}
}

type activityPatchReq struct {
	model.ActivityPatch
}

func (r *activityPatchReq) Validate() error {
	p := &r.ActivityPatch
	return validation.ValidateStruct(p,
		validation.Field(&p.Weekdays, jsonArray),
		validation.Field(&p.TimeFrom, validation.Match(clock)),
		validation.Field(&p.TimeTo, validation.Match(clock)),
		validation.Field(&p.FilterGender, validation.In(genders...)),
		validation.Field(&p.FilterAgeFrom, validation.Min(0)),
		validation.Field(&p.FilterAgeTo, validation.Min(0)),
	)
}

func (h *ActivityHandler) Create(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req activityReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.Activities.Create(ctx, actor, req.activity())
	if err != nil {
		return err
	}
	return respondCreated(c, a)
}

func (h *ActivityHandler) FindAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Activities.FindAll(ctx)
	if err != nil {
		return err
	}
	return respondSuccess(c, list, "")
}

func (h *ActivityHandler) FindAllTypes(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	types, err := h.Activities.FindAllTypes(ctx)
	if err != nil {
		return err
	}
	return respondSuccess(c, types, "")
}

func (h *ActivityHandler) FindByUserID(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.Activities.FindByUserID(ctx, c.Param("userId"), listQuery(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, page, "")
}

func (h *ActivityHandler) FindOne(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.Activities.FindOne(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return respondSuccess(c, a, "")
}

func (h *ActivityHandler) Update(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req activityPatchReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.Activities.Update(ctx, actor, c.Param("id"), req.ActivityPatch)
	if err != nil {
		return err
	}
	return respondSuccess(c, a, "Activity updated successfully")
}

func (h *ActivityHandler) Remove(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Activities.Remove(ctx, actor, c.Param("id")); err != nil {
		return err
	}
	return respondOK(c, "Activity deleted successfully")
}
