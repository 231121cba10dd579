package records

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock returns strictly increasing timestamps.
func fakeClock() func() time.Time {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := t.Context()

	created, err := repo.UpsertBySlug(ctx, "hello-world", Fields{Title: "Hello World", Content: "Body text", Status: "published"})
	require.NoError(t, err)
	require.Equal(t, "hello-world", created.Slug)
	require.Equal(t, "Hello World", created.Title)
	require.Equal(t, "Body text", created.Content)
	require.Equal(t, "published", created.Status)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	updated, err := repo.UpsertBySlug(ctx, "hello-world", Fields{Title: "Hello, World", Content: "New body", Status: "draft"})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Hello, World", updated.Title)
	require.Equal(t, "New body", updated.Content)
	require.Equal(t, "draft", updated.Status)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = repo.UpsertBySlug(ctx, "second", Fields{Title: "Second", Content: "", Status: "published"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, *updated, *got)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "second", all[0].Slug, "most recently updated first")

	published, err := repo.List(ctx, ListOptions{Status: "published"})
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, "second", published[0].Slug)

	limited, err := repo.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	store.now = fakeClock()
	runRepositoryContract(t, store)
	require.Equal(t, 3, store.Upserts())
}

func TestSQLStore_SQLiteMemory(t *testing.T) {
	store, err := Open(t.Context(), DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	store.now = fakeClock()

	runRepositoryContract(t, store)
}

func TestSQLStore_SQLiteFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postsync.db")

	store, err := Open(t.Context(), DialectSQLite, path)
	require.NoError(t, err)
	_, err = store.UpsertBySlug(t.Context(), "kept", Fields{Title: "Kept", Content: "x", Status: "draft"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(t.Context(), DialectSQLite, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	rec, err := reopened.Get(t.Context(), "kept")
	require.NoError(t, err)
	require.Equal(t, "Kept", rec.Title)
}

func TestSQLStore_RejectsEmptySlug(t *testing.T) {
	store, err := Open(t.Context(), DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.UpsertBySlug(t.Context(), " ", Fields{Title: "x"})
	require.Error(t, err)
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(t.Context(), Dialect("mysql"), "dsn")
	require.ErrorContains(t, err, "unsupported store driver")
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgres}
	require.Equal(t, "SELECT * FROM posts WHERE slug = $1 AND status = $2", pg.rebind("SELECT * FROM posts WHERE slug = ? AND status = ?"))

	lite := &SQLStore{dialect: DialectSQLite}
	require.Equal(t, "WHERE slug = ?", lite.rebind("WHERE slug = ?"))
}

// TestSQLStore_Postgres runs against a real server when POSTSYNC_TEST_POSTGRES_DSN is set.
func TestSQLStore_Postgres(t *testing.T) {
	dsn := os.Getenv("POSTSYNC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTSYNC_TEST_POSTGRES_DSN not set")
	}

	store, err := Open(t.Context(), DialectPostgres, dsn)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.db.ExecContext(t.Context(), "TRUNCATE posts")
	require.NoError(t, err)
	store.now = fakeClock()

	runRepositoryContract(t, store)
}
