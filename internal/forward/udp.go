// internal/forward/udp.go
package forward

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/metrics"
)

// Config is the destination of forwarded lines.
type Config struct {
	Host         string
	Port         int
	WriteTimeout time.Duration
}

// UDPForwarder sends each accepted line as one datagram.
// No retry, no acknowledgement: a lost datagram is not an application error.
// Owned by the supervisor goroutine; not safe for concurrent use.
type UDPForwarder struct {
	dest    *net.UDPAddr
	timeout time.Duration
	conn    *net.UDPConn

	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewUDP resolves the destination once and opens an unconnected socket.
// Send never resolves or redials, so it cannot stall the caller on DNS.
func NewUDP(cfg Config, log *zap.Logger, m *metrics.Metrics) (*UDPForwarder, error) {
	if cfg.Host == "" {
		return nil, errors.New("forward: destination host required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.New("forward: destination port out of range")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = time.Second
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dest, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("forward: resolve %s: %w", addr, err)
	}

	network := "udp6"
	if dest.IP.To4() != nil {
		network = "udp4"
	}
	conn, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, fmt.Errorf("forward: open socket: %w", err)
	}

	return &UDPForwarder{
		dest:    dest,
		timeout: cfg.WriteTimeout,
		conn:    conn,
		log:     logger.OrNop(log).With(zap.String("destination", dest.String())),
		metrics: m,
	}, nil
}

// Forward writes line verbatim as a single datagram.
// Failures are counted and logged, never returned. The socket is kept:
// an unconnected socket does not carry errors from earlier sends.
func (f *UDPForwarder) Forward(line []byte) {
	_ = f.conn.SetWriteDeadline(time.Now().Add(f.timeout))
	if _, err := f.conn.WriteToUDP(line, f.dest); err != nil {
		f.metrics.ForwardFailed()
		f.log.Debug("datagram send failed", zap.Error(err))
		return
	}
	f.metrics.Forwarded()
}

// Close releases the socket.
func (f *UDPForwarder) Close() error {
	if f == nil || f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}
