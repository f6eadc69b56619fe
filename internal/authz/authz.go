// Package authz holds the single ownership predicate applied to every recipe
// and comment mutation. The inline checks in update/delete handlers and the
// can-modify preflight endpoints all call CanModify, so the policy cannot
// drift between code paths.
package authz

// Resource is any owned content item
type Resource interface {
	OwnerID() string // id of the owning user
}

// CanModify reports whether the given user may update or delete the resource.
// Ownership is the only grant: the resource's owner id must equal the caller's id.
func CanModify(res Resource, userID string) bool {
	return res.OwnerID() == userID
}
