package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkarpov/entrypad/internal/common"
	"github.com/nkarpov/entrypad/internal/cryptox"
	"github.com/nkarpov/entrypad/internal/dbx"
	"github.com/nkarpov/entrypad/internal/logging"
	"github.com/nkarpov/entrypad/internal/markdown"
	"github.com/nkarpov/entrypad/internal/models"
	"github.com/nkarpov/entrypad/internal/repositories/entries"
	"github.com/nkarpov/entrypad/internal/repositories/repomanager"
)

const testUserID = "9d2a76cc-3f3a-4f7e-9a93-0f8f6f6b1111"

// --- helpers ---

func newTestService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *EntryService {
	t.Helper()

	cipher, err := cryptox.New(cryptox.DeriveKey([]byte("pass"), []byte("salt")))
	require.NoError(t, err)

	renderer := markdown.NewChecklistRenderer(markdown.NewGoldmarkRenderer(), true)
	return NewEntryService(db, rm, cipher, renderer, logging.NewDefault("error"))
}

func ptr(s string) *string { return &s }

// fakeManager hands out a fixed repository regardless of the DBTX.
type fakeManager struct {
	repo entries.Repository
}

func (m *fakeManager) Entries(db dbx.DBTX) entries.Repository { return m.repo }

func (m *fakeManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

// collidingRepo reports a synthetic public id collision for the first
// `collisions` lookups, then behaves like the wrapped repository.
type collidingRepo struct {
	*entries.InMemoryRepository
	collisions int
}

func (r *collidingRepo) GetByPublicID(ctx context.Context, userID, publicID string) (*models.Entry, error) {
	if r.collisions > 0 {
		r.collisions--
		return &models.Entry{PublicID: publicID}, nil
	}
	return r.InMemoryRepository.GetByPublicID(ctx, userID, publicID)
}

// --- tests ---

func TestCreate_Defaults(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())

	entry, err := svc.Create(context.Background(), testUserID, RawFields{Body: "some body"})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryNote, entry.Category)
	assert.Len(t, entry.PublicID, 10)
	assert.False(t, entry.Archived)

	title, err := svc.DecryptedTitle(entry)
	require.NoError(t, err)
	assert.Equal(t, "Note # 1", title)

	body, err := svc.DecryptedBody(entry)
	require.NoError(t, err)
	assert.Equal(t, "some body", body)

	tags, err := svc.DecryptedTags(entry)
	require.NoError(t, err)
	assert.Equal(t, "", tags)
}

func TestCreate_ClassifiesFromTags(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())

	entry, err := svc.Create(context.Background(), testUserID, RawFields{Tags: "work, todo"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTodo, entry.Category)

	title, err := svc.DecryptedTitle(entry)
	require.NoError(t, err)
	assert.Equal(t, "Todo # 1", title)

	tags, err := svc.DecryptedTags(entry)
	require.NoError(t, err)
	assert.Equal(t, "work, todo", tags)
}

func TestCreate_TitleSequence(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.Create(ctx, testUserID, RawFields{Title: "named"})
		require.NoError(t, err)
	}

	entry, err := svc.Create(ctx, testUserID, RawFields{Tags: "todo"})
	require.NoError(t, err)

	title, err := svc.DecryptedTitle(entry)
	require.NoError(t, err)
	assert.Equal(t, "Todo # 5", title)
}

func TestCreate_PublicIDsDistinct(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t"})
		require.NoError(t, err)
		assert.False(t, seen[entry.PublicID], "duplicate public id %s", entry.PublicID)
		seen[entry.PublicID] = true
	}
}

func TestCreate_PublicIDCollisionRetry(t *testing.T) {
	repo := &collidingRepo{InMemoryRepository: entries.NewInMemoryRepository(), collisions: 3}
	svc := newTestService(t, nil, &fakeManager{repo: repo})

	entry, err := svc.Create(context.Background(), testUserID, RawFields{Title: "t"})
	require.NoError(t, err)

	assert.Len(t, entry.PublicID, 10)
	assert.Zero(t, repo.collisions, "all synthetic collisions should be consumed")
}

func TestCreate_ReadLaterDetail(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{
		Tags: "read_later",
		URL:  "https://example.com/article",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryReadLater, entry.Category)

	re, err := svc.ReadEntry(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", re.URL)
}

func TestUpdate_OnlyDirtyFieldsReencrypted(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t", Body: "old", Tags: "note"})
	require.NoError(t, err)

	titleBlob := append([]byte(nil), entry.Title...)
	tagsBlob := append([]byte(nil), entry.Tags...)
	bodyBlob := append([]byte(nil), entry.Body...)

	_, err = svc.Update(ctx, entry, Changes{Body: ptr("new body")})
	require.NoError(t, err)

	assert.Equal(t, titleBlob, entry.Title, "title ciphertext must be stable")
	assert.Equal(t, tagsBlob, entry.Tags, "tags ciphertext must be stable")
	assert.NotEqual(t, bodyBlob, entry.Body)

	body, err := svc.DecryptedBody(entry)
	require.NoError(t, err)
	assert.Equal(t, "new body", body)
}

func TestUpdate_TagChangeReclassifies(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t"})
	require.NoError(t, err)
	require.Equal(t, models.CategoryNote, entry.Category)

	_, err = svc.Update(ctx, entry, Changes{Tags: ptr("todo")})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTodo, entry.Category)
}

func TestUpdate_SanitizesTags(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, entry, Changes{Tags: ptr(" a ,,b, ")})
	require.NoError(t, err)

	tags, err := svc.DecryptedTags(entry)
	require.NoError(t, err)
	assert.Equal(t, "a, b", tags)
}

func TestUpdate_BlankTitleResynthesized(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "named"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, entry, Changes{Title: ptr("  ")})
	require.NoError(t, err)

	title, err := svc.DecryptedTitle(entry)
	require.NoError(t, err)
	assert.Equal(t, "Note # 2", title)
}

func TestPublicIDImmutableAcrossUpdates(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t"})
	require.NoError(t, err)
	id := entry.PublicID

	_, err = svc.Update(ctx, entry, Changes{Body: ptr("b")})
	require.NoError(t, err)
	assert.Equal(t, id, entry.PublicID)
}

func TestArchiveUnarchive(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, entry))
	assert.True(t, entry.Archived)

	active, err := svc.List(ctx, testUserID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, testUserID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Unarchive(ctx, entry))
	assert.False(t, entry.Archived)

	active, err = svc.List(ctx, testUserID, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())

	_, err := svc.Get(context.Background(), testUserID, "0123456789")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRenderedBody(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{
		Tags: "todo",
		Body: "- [x] done\n- [ ] pending",
	})
	require.NoError(t, err)

	html, err := svc.RenderedBody(entry, markdown.AutoDetectByCategory)
	require.NoError(t, err)

	assert.Contains(t, html, `<ul class="todo">`)
	assert.Contains(t, html, `id="todo_0"`)
	assert.Contains(t, html, `id="todo_1"`)

	plain, err := svc.RenderedBody(entry, markdown.ForceNoChecklist)
	require.NoError(t, err)
	assert.Contains(t, plain, "[x] done")
}

func TestDecryption_TamperedFieldFails(t *testing.T) {
	svc := newTestService(t, nil, repomanager.NewInMemoryRepositoryManager())

	entry, err := svc.Create(context.Background(), testUserID, RawFields{Title: "secret"})
	require.NoError(t, err)

	entry.Title[len(entry.Title)-1] ^= 0x01
	_, err = svc.DecryptedTitle(entry)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDestroy_CascadesToReadEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rm := repomanager.NewInMemoryRepositoryManager()
	svc := newTestService(t, db, rm)
	ctx := context.Background()

	entry, err := svc.Create(ctx, testUserID, RawFields{
		Tags: "read_later",
		URL:  "https://example.com",
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.Destroy(ctx, entry))

	_, err = svc.Get(ctx, testUserID, entry.PublicID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.ReadEntry(ctx, entry)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
