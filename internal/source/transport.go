// internal/source/transport.go
package source

import (
	"context"
	"errors"
	"time"
)

// ErrPeerClosed reports an orderly close by the remote end.
var ErrPeerClosed = errors.New("source: peer closed connection")

// Transport opens connections to the source.
// ONE attempt per call: retry policy belongs to the caller.
type Transport interface {
	Connect(ctx context.Context) (Conn, error)
	Addr() string
}

// Conn is one established source connection.
type Conn interface {
	// Wait blocks until data is readable or timeout elapses.
	// A timeout returns (false, nil); it is not an error.
	Wait(timeout time.Duration) (bool, error)

	// Read reads whatever is available. (0, io.EOF) means the peer closed.
	Read(p []byte) (int, error)

	// Probe checks liveness without consuming stream data.
	// nil means healthy, including when no data is pending.
	Probe() error

	Close() error
}
