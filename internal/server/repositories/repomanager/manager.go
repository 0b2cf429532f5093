// Package repomanager aggregates the repositories of the identity store over
// a shared database handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlukyanov/userd/internal/server/repositories/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
