// internal/frame/filter.go
package frame

import (
	"bytes"
	"errors"
)

// Filter accepts lines that start with one of a fixed set of prefixes.
// Matching is byte-exact, case-sensitive and anchored at position zero.
type Filter struct {
	prefixes [][]byte
}

// NewFilter builds a filter. At least one non-empty prefix is required.
func NewFilter(prefixes []string) (*Filter, error) {
	if len(prefixes) == 0 {
		return nil, errors.New("frame: at least one prefix required")
	}
	f := &Filter{prefixes: make([][]byte, 0, len(prefixes))}
	for _, p := range prefixes {
		if p == "" {
			return nil, errors.New("frame: empty prefix")
		}
		f.prefixes = append(f.prefixes, []byte(p))
	}
	return f, nil
}

// Accept reports whether line should be forwarded.
func (f *Filter) Accept(line []byte) bool {
	for _, p := range f.prefixes {
		if bytes.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
