package model

import (
	"encoding/json"
	"time"
)

// Gender is the audience filter of an activity.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderAny    Gender = "ANY"
)

// Valid reports whether g is a known gender filter.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderAny
}

// ActivityType is a row of the `activity_types` lookup table.
type ActivityType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Activity is an owned record in the `activities` table.
type Activity struct {
	ID             string          `json:"id"`
	TypeID         string          `json:"typeId"`
	Weekdays       json.RawMessage `json:"weekdays,omitempty"`
	Date           *time.Time      `json:"date,omitempty"`
	IsAnyDate      bool            `json:"isAnyDate"`
	TimeFrom       string          `json:"timeFrom"`
	TimeTo         string          `json:"timeTo"`
	FilterGender   Gender          `json:"filterGender"`
	FilterAgeFrom  *int            `json:"filterAgeFrom,omitempty"`
	FilterAgeTo    *int            `json:"filterAgeTo,omitempty"`
	FilterLocation *int            `json:"filterLocation,omitempty"`
	UserID         string          `json:"userId"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OwnerID implements Owned.
func (a Activity) OwnerID() string { return a.UserID }

// ActivityPatch lists the updatable activity columns.
type ActivityPatch struct {
	TypeID         *string          `json:"typeId"`
	Weekdays       *json.RawMessage `json:"weekdays"`
	Date           *time.Time       `json:"date"`
	IsAnyDate      *bool            `json:"isAnyDate"`
	TimeFrom       *string          `json:"timeFrom"`
	TimeTo         *string          `json:"timeTo"`
	FilterGender   *Gender          `json:"filterGender"`
	FilterAgeFrom  *int             `json:"filterAgeFrom"`
	FilterAgeTo    *int             `json:"filterAgeTo"`
	FilterLocation *int             `json:"filterLocation"`
}
