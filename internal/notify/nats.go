package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "postsync.post.synced"

// DefaultFlushTimeout bounds the wait for the server to acknowledge a publish.
const DefaultFlushTimeout = 5 * time.Second

// Publisher is the subset of *nats.Conn used by NATSNotifier.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes events as JSON on a single subject.
type NATSNotifier struct {
	conn    Publisher
	subject string
	timeout time.Duration
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	conn, err := nats.Connect(url, nats.Name("postsync"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifier connected", "url", url, "subject", subjectOrDefault(subject))
	return NewNATSNotifierWithConn(conn, subject), nil
}

// NewNATSNotifierWithConn wraps an existing connection.
func NewNATSNotifierWithConn(conn Publisher, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subjectOrDefault(subject), timeout: DefaultFlushTimeout}
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return DefaultSubject
	}
	return subject
}

// Subject returns the subject events are published on.
func (n *NATSNotifier) Subject() string { return n.subject }

// WithFlushTimeout sets the flush timeout; non-positive values keep the default.
func (n *NATSNotifier) WithFlushTimeout(d time.Duration) *NATSNotifier {
	if d > 0 {
		n.timeout = d
	}
	return n
}

// PostSynced publishes ev and flushes so the caller learns about delivery
// failures before moving on. The flush waits at most the flush timeout, even
// when ctx has no deadline of its own.
func (n *NATSNotifier) PostSynced(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	flushCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	slog.Debug("Published post synced event", "subject", n.subject, "slug", ev.Slug)
	return nil
}

// Close closes the underlying connection.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
