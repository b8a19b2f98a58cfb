// Package entries provides PostgreSQL-backed and in-memory repositories for
// entry persistence.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nkarpov/entrypad/internal/common"
	"github.com/nkarpov/entrypad/internal/dbx"
	"github.com/nkarpov/entrypad/internal/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, public_id, category, title, body, tags, archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.PublicID, entry.Category,
		entry.Title, entry.Body, entry.Tags, entry.Archived)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET category = $2, title = $3, body = $4, tags = $5, archived = $6, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Category, entry.Title, entry.Body, entry.Tags, entry.Archived)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) GetByPublicID(ctx context.Context, userID, publicID string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, public_id, category, title, body, tags, archived, created_at, updated_at
		FROM entries
		WHERE user_id = $1 AND public_id = $2
	`
	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, userID, publicID).Scan(
		&entry.ID, &entry.UserID, &entry.PublicID, &entry.Category,
		&entry.Title, &entry.Body, &entry.Tags, &entry.Archived,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM entries WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string, includeArchived bool) ([]*models.Entry, error) {
	query := `
		SELECT id, user_id, public_id, category, title, body, tags, archived, created_at, updated_at
		FROM entries
		WHERE user_id = $1 AND (archived = false OR $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.PublicID, &item.Category,
			&item.Title, &item.Body, &item.Tags, &item.Archived,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET archived = $2, updated_at = now() WHERE id = $1`, id, archived)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) CreateReadEntry(ctx context.Context, re *models.ReadEntry) error {
	query := `
		INSERT INTO read_entries (id, entry_id, url)
		VALUES ($1, $2, $3)
		ON CONFLICT (entry_id) DO UPDATE SET url = EXCLUDED.url
	`
	_, err := r.db.ExecContext(ctx, query, re.ID, re.EntryID, re.URL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetReadEntry(ctx context.Context, entryID string) (*models.ReadEntry, error) {
	query := `SELECT id, entry_id, url, created_at FROM read_entries WHERE entry_id = $1`

	re := &models.ReadEntry{}
	err := r.db.QueryRowContext(ctx, query, entryID).Scan(&re.ID, &re.EntryID, &re.URL, &re.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return re, nil
}

// DeleteReadEntry removes the detail record if one exists. Zero affected
// rows is not an error: most entries have no read-later detail.
func (r *PostgresRepository) DeleteReadEntry(ctx context.Context, entryID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM read_entries WHERE entry_id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
