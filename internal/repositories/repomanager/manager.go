// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same queries on *sql.DB or inside a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/nkarpov/entrypad/internal/dbx"
	"github.com/nkarpov/entrypad/internal/repositories/entries"
)

type RepositoryManager interface {
	Entries(db dbx.DBTX) entries.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
