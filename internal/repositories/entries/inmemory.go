package entries

import (
	"context"
	"sort"
	"sync"

	"github.com/nkarpov/entrypad/internal/common"
	"github.com/nkarpov/entrypad/internal/models"
)

// InMemoryRepository is a map-backed Repository used by tests and local
// experiments. It copies entries on the way in and out so callers cannot
// mutate stored state behind its back.
type InMemoryRepository struct {
	mu          sync.RWMutex
	entries     map[string]*models.Entry    // keyed by entry ID
	readEntries map[string]*models.ReadEntry // keyed by entry ID
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries:     make(map[string]*models.Entry),
		readEntries: make(map[string]*models.ReadEntry),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *entry
	r.entries[e.ID] = &e
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return common.ErrNotFound
	}
	e := *entry
	r.entries[e.ID] = &e
	return nil
}

func (r *InMemoryRepository) GetByPublicID(ctx context.Context, userID, publicID string) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.UserID == userID && e.PublicID == publicID {
			copy := *e
			return &copy, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, userID string, includeArchived bool) ([]*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Entry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if e.Archived && !includeArchived {
			continue
		}
		copy := *e
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return common.ErrNotFound
	}
	e.Archived = archived
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *InMemoryRepository) CreateReadEntry(ctx context.Context, re *models.ReadEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *re
	r.readEntries[copy.EntryID] = &copy
	return nil
}

func (r *InMemoryRepository) GetReadEntry(ctx context.Context, entryID string) (*models.ReadEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	re, ok := r.readEntries[entryID]
	if !ok {
		return nil, common.ErrNotFound
	}
	copy := *re
	return &copy, nil
}

func (r *InMemoryRepository) DeleteReadEntry(ctx context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.readEntries, entryID)
	return nil
}
