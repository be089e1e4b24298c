// Package users provides the user-lookup capability consumed by the tokens
// service. The service only ever reads through the Repository interface, so
// account CRUD stays with its own collaborators.
package users

import (
	"context"
)

// Repository resolves live account state.
type Repository interface {
	// GetByID returns the user with the given id, including the current set
	// of group names. Returns common.ErrorNotFound when the user is absent.
	GetByID(ctx context.Context, id string) (*User, error)
}
