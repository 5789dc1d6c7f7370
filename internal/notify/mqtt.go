// internal/notify/mqtt.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
)

// MQTTConfig selects the broker and topic for notification events.
type MQTTConfig struct {
	Broker   string // host:port
	Topic    string
	ClientID string
}

// MQTTSink publishes each notification as JSON (QoS 1, not retained).
// The client reconnects on its own; a disconnected client fails Send.
type MQTTSink struct {
	cfg    MQTTConfig
	client mqtt.Client
	log    *zap.Logger
}

// NewMQTTSink creates the client and starts connecting in the background.
// Connect failures are not fatal: the client keeps retrying.
func NewMQTTSink(cfg MQTTConfig, log *zap.Logger) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("mqtt: topic required")
	}
	log = logger.OrNop(log).With(zap.String("broker", cfg.Broker))

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Info("mqtt connection established")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost, will auto-reconnect", zap.Error(err))
	}

	s := &MQTTSink{cfg: cfg, client: mqtt.NewClient(opts), log: log}
	s.client.Connect()
	return s, nil
}

func (s *MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Send(ctx context.Context, n Notification) error {
	if !s.client.IsConnectionOpen() {
		return errors.New("mqtt: not connected")
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("mqtt: marshal: %w", err)
	}

	token := s.client.Publish(s.cfg.Topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt: publish: %w", ctx.Err())
	}
}

// Close disconnects, allowing 250ms for in-flight publishes.
func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
