package service

import "github.com/iliyamo/entityhub/internal/model"

// CanMutate reports whether an actor may update or delete a record owned by
// ownerID. Admins may mutate anything; everyone else only their own records.
func CanMutate(role model.Role, actorID, ownerID string) bool {
	return role == model.RoleAdmin || actorID == ownerID
}

// mayMutate applies CanMutate to a resolved record.
func mayMutate(actor model.Claims, r model.Owned) bool {
	return CanMutate(actor.Role, actor.ID, r.OwnerID())
}
