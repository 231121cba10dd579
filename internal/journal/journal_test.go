package journal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testRunID = "run-1"

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournalAppendAndByRun(t *testing.T) {
	j := newTestJournal(t)
	ctx := t.Context()

	started, err := NewEvent(testRunID, TypeRunStarted, RunPayload{Source: "/vault", Destination: "/site"})
	require.NoError(t, err)
	synced, err := NewEvent(testRunID, TypeFileSynced, FilePayload{File: "a.md", Slug: "hello-world", Status: "published"})
	require.NoError(t, err)
	other, err := NewEvent("run-2", TypeRunStarted, RunPayload{})
	require.NoError(t, err)

	require.NoError(t, j.Append(ctx, started))
	require.NoError(t, j.Append(ctx, synced))
	require.NoError(t, j.Append(ctx, other))

	events, err := j.ByRun(ctx, testRunID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypeRunStarted, events[0].Type)
	require.Equal(t, TypeFileSynced, events[1].Type)
	require.Equal(t, testRunID, events[1].RunID)
	require.False(t, events[1].Timestamp.IsZero())

	var fp FilePayload
	require.NoError(t, events[1].Decode(&fp))
	require.Equal(t, "hello-world", fp.Slug)
	require.Equal(t, "published", fp.Status)
}

func TestJournalRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := t.Context()

	for _, typ := range []string{TypeRunStarted, TypeFileSkipped, TypeRunCompleted} {
		e, err := NewEvent(testRunID, typ, FilePayload{File: "x.md"})
		require.NoError(t, err)
		require.NoError(t, j.Append(ctx, e))
	}

	events, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypeRunCompleted, events[0].Type)
	require.Equal(t, TypeFileSkipped, events[1].Type)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("title: A\n"), []byte("Body"))
	require.NotEmpty(t, a)
	require.Equal(t, a, Fingerprint([]byte("title: A\n"), []byte("Body")))
	require.NotEqual(t, a, Fingerprint([]byte("title: A\n"), []byte("Body changed")))
}
