// internal/frame/assembler.go
package frame

import "bytes"

// Delimiter terminates every line on the source stream.
var Delimiter = []byte("\r\n")

// DefaultMaxPending bounds the retained fragment when no limit is configured.
const DefaultMaxPending = 64 * 1024

// Assembler turns arbitrarily chunked reads into complete lines.
// It keeps the trailing fragment between calls.
// Not safe for concurrent use: the supervisor owns it.
type Assembler struct {
	pending    []byte
	maxPending int
	overflows  uint64

	// discarding drops input through the next delimiter after an overflow.
	discarding bool
}

// NewAssembler returns an empty assembler.
// maxPending <= 0 selects DefaultMaxPending.
func NewAssembler(maxPending int) *Assembler {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Assembler{maxPending: maxPending}
}

// Feed consumes one chunk and returns every line completed by it, in order.
// Lines exclude the delimiter and are copies owned by the caller.
// A line longer than maxPending is dropped whole, however it was chunked.
func (a *Assembler) Feed(chunk []byte) [][]byte {
	a.pending = append(a.pending, chunk...)

	if a.discarding {
		i := bytes.Index(a.pending, Delimiter)
		if i < 0 {
			a.pending = trailingCR(a.pending)
			return nil
		}
		a.pending = a.pending[i+len(Delimiter):]
		a.discarding = false
	}

	var lines [][]byte
	for {
		i := bytes.Index(a.pending, Delimiter)
		if i < 0 {
			break
		}
		if i > a.maxPending {
			a.overflows++
		} else {
			line := make([]byte, i)
			copy(line, a.pending[:i])
			lines = append(lines, line)
		}
		a.pending = a.pending[i+len(Delimiter):]
	}

	// Keep the buffer compact: the remainder is at most one fragment.
	if len(a.pending) == 0 {
		a.pending = a.pending[:0:0]
	} else {
		a.pending = append([]byte(nil), a.pending...)
	}

	// A fragment that never terminates would grow without bound.
	// A lone trailing '\r' may be half a delimiter and is not counted.
	n := len(a.pending)
	if n > 0 && a.pending[n-1] == Delimiter[0] {
		n--
	}
	if n > a.maxPending {
		a.overflows++
		a.discarding = true
		a.pending = trailingCR(a.pending)
	}

	return lines
}

// trailingCR keeps a lone trailing '\r' so a split delimiter still completes.
func trailingCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == Delimiter[0] {
		return []byte{Delimiter[0]}
	}
	return nil
}

// Reset drops any retained fragment. Called when a new connection starts a new stream.
func (a *Assembler) Reset() {
	a.pending = nil
	a.discarding = false
}

// Pending reports how many bytes are retained.
func (a *Assembler) Pending() int {
	return len(a.pending)
}

// Overflows reports how many lines were discarded for exceeding the limit.
func (a *Assembler) Overflows() uint64 {
	return a.overflows
}
