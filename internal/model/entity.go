package model

import "time"

// Entity is a generic owned record in the `entities` table.
type Entity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnerID implements Owned.
func (e Entity) OwnerID() string { return e.UserID }

// EntityPatch lists the updatable entity columns.
type EntityPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Owned is implemented by records that belong to a user: resources through
// their userId column, users through their own id.
type Owned interface {
	OwnerID() string
}
