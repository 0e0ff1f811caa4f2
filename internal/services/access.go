package services

import (
	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

// Caller is the authenticated identity taken from the bearer token.
type Caller struct {
	ID   string
	Role models.UserRole
}

// OwnsResource is the single ownership predicate: the caller acts on a
// resource only when its id equals the stored owner id.
func OwnsResource(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}

// requireOwner returns a Forbidden error carrying msg unless the caller owns
// the resource.
func requireOwner(op, msg string, caller Caller, ownerID string) error {
	if !OwnsResource(caller.ID, ownerID) {
		return utils.E(utils.CodeForbidden, op, msg, nil)
	}
	return nil
}

// validID reports whether id can name a stored row. Malformed ids are
// treated as missing rows rather than sent to the database.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// Paged is one page of a listing plus the total size of the listing.
type Paged[T any] struct {
	Items []T
	Page  utils.Page
	Total int64
}

func newPaged[T any](rows []T, p utils.Page, total int64) *Paged[T] {
	if rows == nil {
		rows = []T{}
	}
	return &Paged[T]{Items: rows, Page: p, Total: total}
}
