// internal/notify/nats.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
)

// NATSConfig selects the server and subject for notification events.
type NATSConfig struct {
	URL     string
	Subject string
	Name    string
}

// NATSSink publishes each notification as JSON on a core NATS subject.
type NATSSink struct {
	cfg  NATSConfig
	conn *nats.Conn
}

// NewNATSSink connects to the server. With RetryOnFailedConnect the initial
// connect does not fail while the server is down; publishes are buffered by the client.
func NewNATSSink(cfg NATSConfig, log *zap.Logger) (*NATSSink, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats: url required")
	}
	if cfg.Subject == "" {
		return nil, errors.New("nats: subject required")
	}
	log = logger.OrNop(log).With(zap.String("nats_url", cfg.URL))

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("server", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}
	return &NATSSink{cfg: cfg, conn: conn}, nil
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("nats: marshal: %w", err)
	}
	if err := s.conn.Publish(s.cfg.Subject, payload); err != nil {
		return fmt.Errorf("nats: publish: %w", err)
	}
	if s.conn.IsConnected() {
		if err := s.conn.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("nats: flush: %w", err)
		}
	}
	return nil
}

// Close drains pending publishes and closes the connection.
func (s *NATSSink) Close() error {
	return s.conn.Drain()
}
