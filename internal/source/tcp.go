// internal/source/tcp.go
//go:build unix

package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// KeepAlive is the OS-level dead-peer detection layer.
type KeepAlive struct {
	Idle     time.Duration
	Interval time.Duration
	Count    int
}

// TCPConfig is the minimal transport config.
type TCPConfig struct {
	Host           string
	Port           int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	KeepAlive      KeepAlive
}

// TCPTransport dials the source over TCP.
type TCPTransport struct {
	cfg  TCPConfig
	addr string
}

// NewTCP validates cfg and returns a transport. No connection is made.
func NewTCP(cfg TCPConfig) (*TCPTransport, error) {
	if cfg.Host == "" {
		return nil, errors.New("source: host required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.New("source: port out of range")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	return &TCPTransport{
		cfg:  cfg,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}, nil
}

func (t *TCPTransport) Addr() string { return t.addr }

// Connect dials once and applies socket tuning.
// A tuning failure closes the socket and fails the attempt.
func (t *TCPTransport) Connect(ctx context.Context) (Conn, error) {
	d := net.Dialer{
		Timeout:   t.cfg.ConnectTimeout,
		KeepAlive: -1, // tuned explicitly below
	}
	c, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("source: dial %s: %w", t.addr, err)
	}

	tc, ok := c.(*net.TCPConn)
	if !ok {
		_ = c.Close()
		return nil, fmt.Errorf("source: unexpected connection type %T", c)
	}
	raw, err := tc.SyscallConn()
	if err != nil {
		_ = tc.Close()
		return nil, fmt.Errorf("source: raw conn: %w", err)
	}
	if err := tuneKeepAlive(tc, raw, t.cfg.KeepAlive); err != nil {
		_ = tc.Close()
		return nil, fmt.Errorf("source: keepalive: %w", err)
	}

	return &tcpConn{
		conn:        tc,
		raw:         raw,
		readTimeout: t.cfg.ReadTimeout,
	}, nil
}

type tcpConn struct {
	conn        *net.TCPConn
	raw         syscall.RawConn
	readTimeout time.Duration
}

// Wait polls the socket for readability.
// POLLHUP counts as readable: the following Read reports EOF.
func (c *tcpConn) Wait(timeout time.Duration) (bool, error) {
	var (
		n       int
		perr    error
		revents int16
	)
	err := c.raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, perr = unix.Poll(fds, int(timeout/time.Millisecond))
		revents = fds[0].Revents
	})
	if err != nil {
		return false, fmt.Errorf("source: poll: %w", err)
	}
	if perr == unix.EINTR {
		return false, nil
	}
	if perr != nil {
		return false, fmt.Errorf("source: poll: %w", perr)
	}
	if n == 0 {
		return false, nil
	}
	if revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
		return false, fmt.Errorf("source: poll: socket error (revents=%#x)", revents)
	}
	return true, nil
}

func (c *tcpConn) Read(p []byte) (int, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	return c.conn.Read(p)
}

// Probe peeks one byte without blocking and checks the pending socket error,
// then issues a zero-length write to surface EPIPE/ECONNRESET.
func (c *tcpConn) Probe() error {
	var (
		n      int
		rerr   error
		soErr  int
		gerr   error
		werr   error
		peeked [1]byte
	)
	err := c.raw.Control(func(fd uintptr) {
		n, _, rerr = unix.Recvfrom(int(fd), peeked[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		soErr, gerr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
		if rerr == nil && n == 0 {
			return
		}
		_, werr = unix.Write(int(fd), nil)
	})
	if err != nil {
		return fmt.Errorf("source: probe: %w", err)
	}

	switch {
	case rerr == nil && n == 0:
		return ErrPeerClosed
	case rerr != nil && rerr != unix.EAGAIN && rerr != unix.EWOULDBLOCK && rerr != unix.EINTR:
		return fmt.Errorf("source: probe peek: %w", rerr)
	}
	if gerr != nil {
		return fmt.Errorf("source: probe getsockopt: %w", gerr)
	}
	if soErr != 0 {
		return fmt.Errorf("source: probe: %w", unix.Errno(soErr))
	}
	if werr != nil && werr != unix.EAGAIN && werr != unix.EINTR {
		return fmt.Errorf("source: probe write: %w", werr)
	}
	return nil
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}
