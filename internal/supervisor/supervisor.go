// internal/supervisor/supervisor.go
package supervisor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tamzrod/ais-forwarder/internal/frame"
	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/metrics"
	"github.com/tamzrod/ais-forwarder/internal/notify"
	"github.com/tamzrod/ais-forwarder/internal/source"
)

// Forwarder receives every accepted line. It must not block for long and never fails.
type Forwarder interface {
	Forward(line []byte)
}

// Listener observes raw link transitions, before de-duplication.
// Called on the supervisor goroutine: implementations must not block.
type Listener interface {
	LinkState(state State, err error)
}

// Config is the supervisor's timing.
type Config struct {
	HealthInterval time.Duration // liveness probe cadence while connected
	ReadWait       time.Duration // bound on one readiness wait
	RetryInterval  time.Duration // delay after a failed connect
	ReadBufferSize int
	MaxPending     int // retained fragment limit, see frame.Assembler
}

// Deps are the supervisor's collaborators.
type Deps struct {
	Transport source.Transport
	Filter    *frame.Filter
	Forwarder Forwarder
	Notifier  notify.Notifier
	Listener  Listener         // optional
	Metrics   *metrics.Metrics // optional
	Logger    *zap.Logger      // optional
	Clock     Clock            // optional
}

// Supervisor owns the source connection and drives the relay.
// All state below is touched only by the goroutine running Run.
type Supervisor struct {
	cfg Config

	transport source.Transport
	filter    *frame.Filter
	forwarder Forwarder
	notifier  notify.Notifier
	listener  Listener
	metrics   *metrics.Metrics
	log       *zap.Logger
	clock     Clock

	state     State
	conn      source.Conn
	session   string
	lastProbe time.Time
	assembler *frame.Assembler
	deduper   notify.Deduper
	buf       []byte

	dropped     uint64
	dropSummary rate.Sometimes
}

// New validates cfg and deps. The supervisor starts DISCONNECTED.
func New(cfg Config, deps Deps) (*Supervisor, error) {
	if deps.Transport == nil {
		return nil, errors.New("supervisor: transport required")
	}
	if deps.Filter == nil {
		return nil, errors.New("supervisor: filter required")
	}
	if deps.Forwarder == nil {
		return nil, errors.New("supervisor: forwarder required")
	}
	if deps.Notifier == nil {
		return nil, errors.New("supervisor: notifier required")
	}
	if cfg.HealthInterval <= 0 || cfg.ReadWait <= 0 || cfg.RetryInterval <= 0 {
		return nil, errors.New("supervisor: intervals must be > 0")
	}
	if cfg.ReadWait >= cfg.HealthInterval {
		return nil, errors.New("supervisor: read wait must be shorter than health interval")
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 1024
	}

	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Supervisor{
		cfg:         cfg,
		transport:   deps.Transport,
		filter:      deps.Filter,
		forwarder:   deps.Forwarder,
		notifier:    deps.Notifier,
		listener:    deps.Listener,
		metrics:     deps.Metrics,
		log:         logger.OrNop(deps.Logger).With(zap.String("source", deps.Transport.Addr())),
		clock:       clock,
		state:       Disconnected,
		assembler:   frame.NewAssembler(cfg.MaxPending),
		buf:         make([]byte, cfg.ReadBufferSize),
		dropSummary: rate.Sometimes{Interval: time.Minute},
	}, nil
}

// Run drives the state machine until ctx is done. It returns nil on cancellation.
// No steady-state failure ends the loop. Every reconnect, after a failed
// connect or a lost session, waits RetryInterval first.
func (s *Supervisor) Run(ctx context.Context) error {
	s.log.Info("supervisor started",
		zap.Duration("health_interval", s.cfg.HealthInterval),
		zap.Duration("read_wait", s.cfg.ReadWait),
		zap.Duration("retry_interval", s.cfg.RetryInterval),
	)
	defer s.shutdown()

	for ctx.Err() == nil {
		switch s.state {
		case Disconnected:
			s.connect(ctx)
		case Connected:
			s.step()
			if s.state == Disconnected {
				// Wait before reconnecting, as after a failed connect.
				_ = s.clock.Sleep(ctx, s.cfg.RetryInterval)
			}
		}
	}
	return nil
}

// ---- DISCONNECTED ----

func (s *Supervisor) connect(ctx context.Context) {
	conn, err := s.transport.Connect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		lerr := &LinkError{Cause: CauseConnect, Err: err}
		s.metrics.ConnectFailed()
		s.log.Warn("source connect failed", zap.Error(err))
		s.emit(s.deduper.ConnectFailed(), err.Error())
		s.observe(Disconnected, lerr)

		_ = s.clock.Sleep(ctx, s.cfg.RetryInterval)
		return
	}

	s.assembler.Reset()
	s.conn = conn
	s.session = uuid.NewString()
	s.lastProbe = s.clock.Now()

	s.metrics.Connected()
	s.metrics.SetConnected(true)
	s.log.Info("source connected", zap.String("session", s.session))

	s.emit(s.deduper.Connected(), "")
	s.state = Connected
	s.observe(Connected, nil)
}

// ---- CONNECTED ----

// step runs one probe-if-due, wait, read cycle.
func (s *Supervisor) step() {
	if now := s.clock.Now(); now.Sub(s.lastProbe) >= s.cfg.HealthInterval {
		s.lastProbe = now
		s.metrics.Probed()
		if err := s.conn.Probe(); err != nil {
			s.lose(CauseProbe, err)
			return
		}
	}

	ready, err := s.conn.Wait(s.cfg.ReadWait)
	if err != nil {
		s.lose(CauseWait, err)
		return
	}
	if !ready {
		return
	}

	n, err := s.conn.Read(s.buf)
	if n > 0 {
		s.handle(s.buf[:n])
	}
	switch {
	case errors.Is(err, io.EOF):
		s.lose(CauseClosed, source.ErrPeerClosed)
	case err != nil:
		s.lose(CauseRead, err)
	case n == 0:
		s.lose(CauseClosed, source.ErrPeerClosed)
	}
}

func (s *Supervisor) handle(chunk []byte) {
	s.metrics.Received(len(chunk))

	overflows := s.assembler.Overflows()
	for _, line := range s.assembler.Feed(chunk) {
		if s.filter.Accept(line) {
			s.forwarder.Forward(line)
			continue
		}
		s.dropped++
		s.metrics.Dropped()
	}
	if s.assembler.Overflows() != overflows {
		s.metrics.FrameOverflow()
		s.log.Warn("discarded undelimited fragment", zap.String("session", s.session))
	}

	if s.dropped > 0 {
		s.dropSummary.Do(func() {
			s.log.Debug("lines dropped by prefix filter", zap.Uint64("count", s.dropped))
			s.dropped = 0
		})
	}
}

func (s *Supervisor) lose(cause Cause, err error) {
	lerr := &LinkError{Cause: cause, Err: err}

	_ = s.conn.Close()
	s.conn = nil

	s.metrics.SetConnected(false)
	s.metrics.Disconnected(string(cause))
	s.log.Warn("source connection lost",
		zap.String("session", s.session),
		zap.String("cause", string(cause)),
		zap.Error(err),
	)

	s.emit(s.deduper.Disconnected(), lerr.Error())
	s.state = Disconnected
	s.observe(Disconnected, lerr)
}

// ---- helpers ----

func (s *Supervisor) emit(kind notify.Kind, detail string) {
	if kind == notify.KindNone {
		return
	}
	n := notify.Build(kind, s.transport.Addr(), s.session, detail, s.clock.Now())
	s.log.Info("notification", zap.String("event", n.Event), zap.String("session", s.session))
	s.notifier.Notify(n)
}

func (s *Supervisor) observe(state State, err error) {
	if s.listener != nil {
		s.listener.LinkState(state, err)
	}
}

// shutdown closes the connection without emitting a loss: the relay is stopping.
func (s *Supervisor) shutdown() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.state = Disconnected
	s.metrics.SetConnected(false)
	s.log.Info("supervisor stopped")
}
