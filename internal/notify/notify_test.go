package notify

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	pubErr   error
	flushErr error
	closed   bool
	deadline time.Time
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

// FlushWithContext mirrors nats.Conn, which refuses contexts without a deadline.
func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return errors.New("nats: context requires a deadline")
	}
	f.deadline = deadline
	return f.flushErr
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSNotifierPublishesJSON(t *testing.T) {
	conn := &fakeConn{}
	n := NewNATSNotifierWithConn(conn, "")
	require.Equal(t, DefaultSubject, n.Subject())

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := n.PostSynced(context.Background(), Event{
		RunID: "run-1", Slug: "hello-world", Title: "Hello World",
		Status: "draft", Destination: "/site/hello-world.md", Source: "a.md", SyncedAt: at,
	})
	require.NoError(t, err)
	require.Equal(t, []string{DefaultSubject}, conn.subjects)

	var got Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	require.Equal(t, "hello-world", got.Slug)
	require.Equal(t, "run-1", got.RunID)
	require.True(t, at.Equal(got.SyncedAt))

	require.NoError(t, n.Close())
	require.True(t, conn.closed)
}

func TestNATSNotifierErrors(t *testing.T) {
	n := NewNATSNotifierWithConn(&fakeConn{pubErr: errors.New("boom")}, "posts")
	err := n.PostSynced(context.Background(), Event{Slug: "x"})
	require.ErrorContains(t, err, "failed to publish event")

	n = NewNATSNotifierWithConn(&fakeConn{flushErr: errors.New("timeout")}, "posts")
	err = n.PostSynced(context.Background(), Event{Slug: "x"})
	require.ErrorContains(t, err, "failed to flush event")
}

func TestNewNATSNotifierRequiresURL(t *testing.T) {
	_, err := NewNATSNotifier("", "")
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	require.NoError(t, n.PostSynced(context.Background(), Event{}))
	require.NoError(t, n.Close())
}

func TestNATSNotifierBoundsFlushWithoutDeadline(t *testing.T) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn := &fakeConn{}
	n := NewNATSNotifierWithConn(conn, "").WithFlushTimeout(2 * time.Second)
	start := time.Now()
	require.NoError(t, n.PostSynced(ctx, Event{Slug: "hello-world"}))
	require.WithinDuration(t, start.Add(2*time.Second), conn.deadline, time.Second)
}

func TestNATSNotifierKeepsEarlierCallerDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	want, _ := ctx.Deadline()

	conn := &fakeConn{}
	require.NoError(t, NewNATSNotifierWithConn(conn, "").PostSynced(ctx, Event{Slug: "a"}))
	require.Equal(t, want, conn.deadline)
}
