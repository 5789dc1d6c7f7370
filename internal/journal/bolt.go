// internal/journal/bolt.go
package journal

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/notify"
)

const (
	// DefaultFileMode is the file mode for a new journal file
	DefaultFileMode = 0o600

	// DefaultTimeout bounds how long an operation waits for the file lock
	DefaultTimeout = time.Second
)

var eventsBucket = []byte("events")

// Options configures the journal.
type Options struct {
	// Path to the bbolt file
	Path string
	// Timeout for acquiring the file lock
	Timeout time.Duration
}

// Store appends notifications to a bbolt file.
// The file is opened per operation, so another process (aisfwd events)
// can read it while the relay is running.
type Store struct {
	path    string
	timeout time.Duration
	log     *zap.Logger
}

// Open prepares the journal at opts.Path, creating the file and bucket if needed.
func Open(opts Options, log *zap.Logger) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("journal: path required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	s := &Store{
		path:    opts.Path,
		timeout: opts.Timeout,
		log:     logger.OrNop(log).Named("journal"),
	}

	err := s.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(eventsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("journal: initialize %s: %w", opts.Path, err)
	}

	s.log.Info("journal ready", zap.String("path", opts.Path))
	return s, nil
}

// Name implements notify.Sink.
func (s *Store) Name() string { return "journal" }

// Send appends n. Keys are the bucket sequence, so iteration order is append order.
func (s *Store) Send(_ context.Context, n notify.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}

	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(eventsBucket)
		if b == nil {
			return fmt.Errorf("journal: events bucket not found")
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(key(seq), data)
	})
}

// List returns up to limit most recent entries, oldest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]notify.Notification, error) {
	return List(s.path, limit)
}

// List reads the journal at path without creating it.
func List(path string, limit int) ([]notify.Notification, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	db, err := bolt.Open(path, DefaultFileMode, &bolt.Options{Timeout: DefaultTimeout, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer db.Close()

	var out []notify.Notification
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(eventsBucket)
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) == limit {
				break
			}
			var n notify.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("journal: entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// newest-first from the cursor; flip to chronological
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Close is a no-op; the file is never held open between operations.
func (s *Store) Close() error { return nil }

func (s *Store) update(fn func(tx *bolt.Tx) error) error {
	db, err := bolt.Open(s.path, DefaultFileMode, &bolt.Options{Timeout: s.timeout})
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", s.path, err)
	}
	defer db.Close()
	return db.Update(fn)
}

func key(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
