package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

var activityColumns = Columns{
	{"id", "id"},
	{"typeId", "type_id"},
	{"weekdays", "weekdays"},
	{"date", "date"},
	{"isAnyDate", "is_any_date"},
	{"timeFrom", "time_from"},
	{"timeTo", "time_to"},
	{"filterGender", "filter_gender"},
	{"filterAgeFrom", "filter_age_from"},
	{"filterAgeTo", "filter_age_to"},
	{"filterLocation", "filter_location"},
	{"userId", "user_id"},
	{"createdAt", "created_at"},
	{"updatedAt", "updated_at"},
}

var activityTypeColumns = Columns{
	{"id", "id"},
	{"name", "name"},
}

const activitySelect = "SELECT id, type_id, weekdays, date, is_any_date, time_from, time_to, filter_gender, " +
	"filter_age_from, filter_age_to, filter_location, user_id, created_at, updated_at FROM activities"

// ActivityRepo encapsulates queries on `activities` and `activity_types`.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Create inserts a and fills in its id, default gender filter and timestamps.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.FilterGender == "" {
		a.FilterGender = model.GenderAny
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activities (id, type_id, weekdays, date, is_any_date, time_from, time_to, filter_gender, "+
			"filter_age_from, filter_age_to, filter_location, user_id, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		a.ID, a.TypeID, nullJSON(a.Weekdays), a.Date, a.IsAnyDate, a.TimeFrom, a.TimeTo, string(a.FilterGender),
		a.FilterAgeFrom, a.FilterAgeTo, a.FilterLocation, a.UserID, a.CreatedAt, a.UpdatedAt)
	return badReference(err)
}

// GetByID fetches an activity by id.
func (r *ActivityRepo) GetByID(ctx context.Context, id string) (model.Activity, error) {
	a, err := scanActivity(r.db.QueryRowContext(ctx, activitySelect+" WHERE id = ?", id))
	return a, notFound(err, errs.MsgActivityNotFound)
}

// List returns all activities ordered by creation time.
func (r *ActivityRepo) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, activitySelect+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update applies patch to the activity with the given id.
func (r *ActivityRepo) Update(ctx context.Context, id string, p model.ActivityPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.TypeID != nil {
		set("type_id", *p.TypeID)
	}
	if p.Weekdays != nil {
		set("weekdays", nullJSON(*p.Weekdays))
	}
	if p.Date != nil {
		set("date", *p.Date)
	}
	if p.IsAnyDate != nil {
		set("is_any_date", *p.IsAnyDate)
	}
	if p.TimeFrom != nil {
		set("time_from", *p.TimeFrom)
	}
	if p.TimeTo != nil {
		set("time_to", *p.TimeTo)
	}
	if p.FilterGender != nil {
		set("filter_gender", string(*p.FilterGender))
	}
	if p.FilterAgeFrom != nil {
		set("filter_age_from", *p.FilterAgeFrom)
	}
	if p.FilterAgeTo != nil {
		set("filter_age_to", *p.FilterAgeTo)
	}
	if p.FilterLocation != nil {
		set("filter_location", *p.FilterLocation)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now().UTC().Truncate(time.Millisecond))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE activities SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return badReference(err)
	}
	return expectOne(res, errs.MsgActivityNotFound)
}

// Delete removes an activity by id.
func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, errs.MsgActivityNotFound)
}

// ListTypes returns all activity types ordered by name.
func (r *ActivityRepo) ListTypes(ctx context.Context) ([]model.ActivityType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM activity_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ActivityType{}
	for rows.Next() {
		t, err := scanActivityType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateType inserts an activity type.
func (r *ActivityRepo) CreateType(ctx context.Context, t *model.ActivityType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, "INSERT INTO activity_types (id, name) VALUES (?,?)", t.ID, t.Name)
	return err
}

// Model describes the activities table to the pagination engine.
func (r *ActivityRepo) Model() Model {
	return Model{
		Name:    "activity",
		Columns: activityColumns,
		Pager:   &tablePager[model.Activity]{db: r.db, table: "activities", cols: activityColumns, scan: scanActivity},
	}
}

// TypeModel describes the activity_types table to the pagination engine.
func (r *ActivityRepo) TypeModel() Model {
	return Model{
		Name:    "activityType",
		Columns: activityTypeColumns,
		Pager:   &tablePager[model.ActivityType]{db: r.db, table: "activity_types", cols: activityTypeColumns, scan: scanActivityType},
	}
}

func scanActivity(s scanner) (model.Activity, error) {
	var (
		a                        model.Activity
		weekdays                 []byte
		date                     sql.NullTime
		gender                   string
		ageFrom, ageTo, location sql.NullInt64
	)
	err := s.Scan(&a.ID, &a.TypeID, &weekdays, &date, &a.IsAnyDate, &a.TimeFrom, &a.TimeTo, &gender,
		&ageFrom, &ageTo, &location, &a.UserID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Activity{}, err
	}
	if len(weekdays) > 0 {
		a.Weekdays = json.RawMessage(weekdays)
	}
	if date.Valid {
		a.Date = &date.Time
	}
	a.FilterGender = model.Gender(gender)
	a.FilterAgeFrom = intPtr(ageFrom)
	a.FilterAgeTo = intPtr(ageTo)
	a.FilterLocation = intPtr(location)
	return a, nil
}

func scanActivityType(s scanner) (model.ActivityType, error) {
	var t model.ActivityType
	err := s.Scan(&t.ID, &t.Name)
	return t, err
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// nullJSON stores an empty document or JSON null as SQL NULL.
func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
