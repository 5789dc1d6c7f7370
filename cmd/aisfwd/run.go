// cmd/aisfwd/run.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/ais-forwarder/internal/config"
	"github.com/tamzrod/ais-forwarder/internal/forward"
	"github.com/tamzrod/ais-forwarder/internal/frame"
	"github.com/tamzrod/ais-forwarder/internal/journal"
	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/metrics"
	"github.com/tamzrod/ais-forwarder/internal/notify"
	"github.com/tamzrod/ais-forwarder/internal/source"
	"github.com/tamzrod/ais-forwarder/internal/supervisor"
	"github.com/tamzrod/ais-forwarder/internal/writer"
)

const appName = "ais-forwarder"

func runRelay(cmd *cobra.Command, _ []string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()

	// --------------------
	// Notification sinks
	// --------------------

	sinks, closeSinks, err := buildSinks(cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		QueueSize: cfg.Notify.QueueSize,
		Timeout:   cfg.Notify.Timeout,
	}, sinks, log.Named("notify"), m)

	// --------------------
	// Status mirror (optional)
	// --------------------

	var (
		tracker  *writer.Tracker
		listener supervisor.Listener
	)
	statusWriter, closeMirror, err := writer.Build(cfg.StatusMirror)
	if err != nil {
		return fmt.Errorf("status mirror: %w", err)
	}
	if statusWriter != nil {
		defer func() { _ = closeMirror() }()
		tracker = writer.NewTracker(statusWriter, log)
		listener = tracker
	}

	// --------------------
	// Relay core
	// --------------------

	filter, err := frame.NewFilter(cfg.Filter.Prefixes)
	if err != nil {
		return err
	}

	fwd, err := forward.NewUDP(forward.Config{
		Host: cfg.Destination.Host,
		Port: cfg.Destination.Port,
	}, log, m)
	if err != nil {
		return err
	}
	defer func() { _ = fwd.Close() }()

	transport, err := source.NewTCP(source.TCPConfig{
		Host:           cfg.Source.Host,
		Port:           cfg.Source.Port,
		ConnectTimeout: cfg.Source.ConnectTimeout,
		ReadTimeout:    cfg.Source.ReadTimeout,
		KeepAlive: source.KeepAlive{
			Idle:     cfg.Source.KeepAlive.Idle,
			Interval: cfg.Source.KeepAlive.Interval,
			Count:    cfg.Source.KeepAlive.Count,
		},
	})
	if err != nil {
		return err
	}

	sup, err := supervisor.New(supervisor.Config{
		HealthInterval: cfg.Health.Interval,
		ReadWait:       cfg.Health.ReadWait,
		RetryInterval:  cfg.Health.RetryInterval,
		MaxPending:     cfg.Filter.MaxPending,
	}, supervisor.Deps{
		Transport: transport,
		Filter:    filter,
		Forwarder: fwd,
		Notifier:  dispatcher,
		Listener:  listener,
		Metrics:   m,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	// --------------------
	// Run until SIGINT/SIGTERM
	// --------------------

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return dispatcher.Run(gctx) })
	if tracker != nil {
		g.Go(func() error { return tracker.Run(gctx) })
	}
	if cfg.Metrics.Listen != "" {
		g.Go(func() error { return serveMetrics(gctx, cfg.Metrics.Listen, m, log) })
	}
	g.Go(func() error { return sup.Run(gctx) })

	log.Info("relay started",
		zap.String("source", transport.Addr()),
		zap.String("destination", fmt.Sprintf("%s:%d", cfg.Destination.Host, cfg.Destination.Port)),
		zap.Strings("prefixes", cfg.Filter.Prefixes),
		zap.Int("sinks", len(sinks)),
	)

	err = g.Wait()
	log.Info("relay stopped")
	return err
}

// buildSinks creates every configured notification channel.
// Broker sinks that cannot be created are logged and skipped; the relay runs without them.
func buildSinks(cfg *config.Config, log *zap.Logger) ([]notify.Sink, func(), error) {
	var (
		sinks   []notify.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, fn := range closers {
			_ = fn()
		}
	}

	if cfg.Notify.Syslog {
		s := notify.NewSyslogSink(cfg.Notify.SyslogTag)
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}
	if cfg.Notify.Desktop {
		sinks = append(sinks, notify.NewDesktopSink(cfg.Notify.Target, appName))
	}

	if cfg.Notify.MQTT.Broker != "" {
		s, err := notify.NewMQTTSink(notify.MQTTConfig{
			Broker:   cfg.Notify.MQTT.Broker,
			Topic:    cfg.Notify.MQTT.Topic,
			ClientID: cfg.Notify.MQTT.ClientID,
		}, log)
		if err != nil {
			log.Warn("mqtt sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, s)
			closers = append(closers, s.Close)
		}
	}
	if cfg.Notify.NATS.URL != "" {
		s, err := notify.NewNATSSink(notify.NATSConfig{
			URL:     cfg.Notify.NATS.URL,
			Subject: cfg.Notify.NATS.Subject,
			Name:    appName,
		}, log)
		if err != nil {
			log.Warn("nats sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, s)
			closers = append(closers, s.Close)
		}
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(journal.Options{Path: cfg.Journal.Path}, log)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, j)
		closers = append(closers, j.Close)
	}

	if len(sinks) == 0 {
		log.Warn("no notification sinks configured; link events are logged only")
	}
	return sinks, closeAll, nil
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
