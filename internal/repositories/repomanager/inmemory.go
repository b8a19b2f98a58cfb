package repomanager

import (
	"context"
	"database/sql"

	"github.com/nkarpov/entrypad/internal/dbx"
	"github.com/nkarpov/entrypad/internal/repositories/entries"
)

// InMemoryRepositoryManager hands out a single shared in-memory repository,
// ignoring the DBTX argument. Intended for tests.
type InMemoryRepositoryManager struct {
	entries *entries.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{entries: entries.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return m.entries
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
