// internal/source/keepalive_other.go
//go:build unix && !linux

package source

import (
	"net"
	"syscall"
)

// tuneKeepAlive falls back to the portable knobs: only the idle period is honoured.
func tuneKeepAlive(tc *net.TCPConn, _ syscall.RawConn, ka KeepAlive) error {
	if ka.Idle <= 0 {
		return nil
	}
	if err := tc.SetKeepAlive(true); err != nil {
		return err
	}
	return tc.SetKeepAlivePeriod(ka.Idle)
}
