// Package service implements the entry aggregate's operations: the fixed
// save pipeline, lazy field decryption, rendered bodies and lifecycle
// actions (archive, destroy). It is the surface the CRUD layer talks to.
package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/nkarpov/entrypad/internal/cryptox"
	"github.com/nkarpov/entrypad/internal/dbx"
	"github.com/nkarpov/entrypad/internal/logging"
	"github.com/nkarpov/entrypad/internal/markdown"
	"github.com/nkarpov/entrypad/internal/models"
	"github.com/nkarpov/entrypad/internal/repositories/repomanager"
)

// EntryService orchestrates repositories, the field cipher and the checklist
// renderer. All operations are synchronous and run on the caller's
// goroutine; the cipher's derived key is fixed at construction.
type EntryService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	cipher   *cryptox.Cipher
	renderer *markdown.ChecklistRenderer
	logger   logging.Logger
}

func NewEntryService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.Cipher,
	renderer *markdown.ChecklistRenderer, logger logging.Logger) *EntryService {
	return &EntryService{db: db, rm: rm, cipher: cipher, renderer: renderer, logger: logger}
}

// RawFields carries the plaintext field values supplied on creation.
type RawFields struct {
	Title string
	Body  string
	Tags  string
	URL   string
}

// Changes carries the plaintext values of fields touched by an update. A nil
// pointer means the field is unchanged and its ciphertext stays as stored.
type Changes struct {
	Title *string
	Body  *string
	Tags  *string
	URL   *string
}

// Create builds a new entry from raw fields, runs the save pipeline and
// persists the result. For read-later entries carrying a source URL, the
// dependent detail record is created as well.
func (s *EntryService) Create(ctx context.Context, userID string, fields RawFields) (*models.Entry, error) {
	repo := s.rm.Entries(s.db)

	entry := &models.Entry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Category: models.CategoryUncategorized,
	}

	st := &pipelineState{
		repo:    repo,
		entry:   entry,
		title:   fields.Title,
		body:    fields.Body,
		tags:    fields.Tags,
		changed: models.NewFieldSet(models.FieldTitle, models.FieldBody, models.FieldTags),
	}

	if err := s.runPipeline(ctx, st); err != nil {
		return nil, err
	}

	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Category == models.CategoryReadLater && fields.URL != "" {
		re := &models.ReadEntry{ID: uuid.NewString(), EntryID: entry.ID, URL: fields.URL}
		if err := repo.CreateReadEntry(ctx, re); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "entry created",
		"public_id", entry.PublicID, "category", entry.Category)

	return entry, nil
}

// Update applies changed fields to an existing entry, reruns the save
// pipeline and persists the result. Untouched fields keep their stored
// ciphertext byte for byte.
func (s *EntryService) Update(ctx context.Context, entry *models.Entry, changes Changes) (*models.Entry, error) {
	repo := s.rm.Entries(s.db)

	st := &pipelineState{
		repo:    repo,
		entry:   entry,
		changed: models.NewFieldSet(),
	}

	var err error
	if st.title, err = s.applyChange(entry.Title, changes.Title, models.FieldTitle, st); err != nil {
		return nil, err
	}
	if st.body, err = s.applyChange(entry.Body, changes.Body, models.FieldBody, st); err != nil {
		return nil, err
	}
	if st.tags, err = s.applyChange(entry.Tags, changes.Tags, models.FieldTags, st); err != nil {
		return nil, err
	}

	if err := s.runPipeline(ctx, st); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	if changes.URL != nil {
		if err := s.applyURLChange(ctx, st, *changes.URL); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// applyChange resolves the plaintext the pipeline should see for one field:
// the supplied new value (marking the field dirty) or the decryption of the
// stored blob.
func (s *EntryService) applyChange(stored []byte, change *string, field models.Field, st *pipelineState) (string, error) {
	if change != nil {
		st.changed.Add(field)
		return *change, nil
	}
	return s.cipher.DecryptString(stored)
}

func (s *EntryService) applyURLChange(ctx context.Context, st *pipelineState, url string) error {
	if url == "" || st.entry.Category != models.CategoryReadLater {
		return st.repo.DeleteReadEntry(ctx, st.entry.ID)
	}
	re := &models.ReadEntry{ID: uuid.NewString(), EntryID: st.entry.ID, URL: url}
	return st.repo.CreateReadEntry(ctx, re)
}

// Get looks up an entry by its owner-scoped public identifier.
func (s *EntryService) Get(ctx context.Context, userID, publicID string) (*models.Entry, error) {
	return s.rm.Entries(s.db).GetByPublicID(ctx, userID, publicID)
}

// List returns the owner's entries, optionally including archived ones.
func (s *EntryService) List(ctx context.Context, userID string, includeArchived bool) ([]*models.Entry, error) {
	return s.rm.Entries(s.db).ListByOwner(ctx, userID, includeArchived)
}

// ReadEntry returns the read-later detail record of an entry, or
// common.ErrNotFound if it has none.
func (s *EntryService) ReadEntry(ctx context.Context, entry *models.Entry) (*models.ReadEntry, error) {
	return s.rm.Entries(s.db).GetReadEntry(ctx, entry.ID)
}

// DecryptedTitle returns the plaintext title. Plaintext is never cached
// across calls.
func (s *EntryService) DecryptedTitle(entry *models.Entry) (string, error) {
	return s.cipher.DecryptString(entry.Title)
}

// DecryptedBody returns the plaintext body.
func (s *EntryService) DecryptedBody(entry *models.Entry) (string, error) {
	return s.cipher.DecryptString(entry.Body)
}

// DecryptedTags returns the plaintext tag string.
func (s *EntryService) DecryptedTags(entry *models.Entry) (string, error) {
	return s.cipher.DecryptString(entry.Tags)
}

// RenderedBody decrypts the body and renders it to HTML through the
// checklist renderer.
func (s *EntryService) RenderedBody(entry *models.Entry, mode markdown.Mode) (string, error) {
	body, err := s.cipher.DecryptString(entry.Body)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(body, mode, entry.Category)
}

// Archive marks the entry archived with immediate persistence, independent
// of the save pipeline.
func (s *EntryService) Archive(ctx context.Context, entry *models.Entry) error {
	if err := s.rm.Entries(s.db).SetArchived(ctx, entry.ID, true); err != nil {
		return err
	}
	entry.Archived = true
	return nil
}

// Unarchive clears the archived flag with immediate persistence.
func (s *EntryService) Unarchive(ctx context.Context, entry *models.Entry) error {
	if err := s.rm.Entries(s.db).SetArchived(ctx, entry.ID, false); err != nil {
		return err
	}
	entry.Archived = false
	return nil
}

// Destroy removes the entry and cascades to its optional read-later detail
// record inside one transaction. Archiving, not destroy, is the soft-delete
// mechanism.
func (s *EntryService) Destroy(ctx context.Context, entry *models.Entry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Entries(tx)
		if err := repo.DeleteReadEntry(ctx, entry.ID); err != nil {
			return err
		}
		return repo.Delete(ctx, entry.ID)
	})
}
