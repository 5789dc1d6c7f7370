// internal/notify/syslog.go
//go:build !windows && !plan9

package notify

import (
	"context"
	"fmt"
	"log/syslog"
	"sync"
)

// SyslogSink writes one system log entry per notification.
// The log connection is opened on first use and reopened after a failure.
type SyslogSink struct {
	tag string

	mu sync.Mutex
	w  *syslog.Writer
}

func NewSyslogSink(tag string) *SyslogSink {
	return &SyslogSink{tag: tag}
}

func (s *SyslogSink) Name() string { return "syslog" }

func (s *SyslogSink) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		w, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, s.tag)
		if err != nil {
			return fmt.Errorf("syslog: open: %w", err)
		}
		s.w = w
	}

	msg := n.Title + ": " + n.Message
	var err error
	if n.Urgency == UrgencyCritical {
		err = s.w.Crit(msg)
	} else {
		err = s.w.Notice(msg)
	}
	if err != nil {
		_ = s.w.Close()
		s.w = nil
		return fmt.Errorf("syslog: write: %w", err)
	}
	return nil
}

// Close releases the log connection.
func (s *SyslogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	err := s.w.Close()
	s.w = nil
	return err
}
