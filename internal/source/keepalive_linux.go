// internal/source/keepalive_linux.go
package source

import (
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// tuneKeepAlive enables TCP keepalive with explicit idle/interval/count and sets
// TCP_USER_TIMEOUT so unacknowledged writes also fail within the same window.
// A zero KeepAlive leaves the kernel defaults.
func tuneKeepAlive(_ *net.TCPConn, raw syscall.RawConn, ka KeepAlive) error {
	if ka.Idle <= 0 {
		return nil
	}
	interval := ka.Interval
	if interval <= 0 {
		interval = ka.Idle
	}
	count := ka.Count
	if count <= 0 {
		count = 3
	}
	userTimeout := ka.Idle + interval*time.Duration(count)

	var serr error
	err := raw.Control(func(fd uintptr) {
		f := int(fd)
		opts := []struct {
			level, name, value int
		}{
			{unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1},
			{unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, seconds(ka.Idle)},
			{unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, seconds(interval)},
			{unix.IPPROTO_TCP, unix.TCP_KEEPCNT, count},
			{unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, int(userTimeout / time.Millisecond)},
		}
		for _, o := range opts {
			if serr = unix.SetsockoptInt(f, o.level, o.name, o.value); serr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return serr
}

func seconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
