// Package db wires concrete repository implementations behind a single
// manager so services can be constructed against interfaces.
package db

import (
	"context"
	"database/sql"

	"github.com/mbaumgart/identity-server/internal/server/refreshtokens"
	"github.com/mbaumgart/identity-server/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
}
