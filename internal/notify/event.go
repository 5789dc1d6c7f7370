// internal/notify/event.go
package notify

import (
	"fmt"
	"time"
)

// Kind is a human-facing connection event.
type Kind int

const (
	KindNone Kind = iota
	KindStarted
	KindRestored
	KindLost
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindStarted:
		return "started"
	case KindRestored:
		return "restored"
	case KindLost:
		return "lost"
	case KindFailed:
		return "failed"
	default:
		return "none"
	}
}

// Urgency maps onto desktop notification urgency levels.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Notification is what every sink receives.
type Notification struct {
	Kind    Kind      `json:"-"`
	Event   string    `json:"event"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Urgency Urgency   `json:"urgency"`
	Session string    `json:"session,omitempty"`
	At      time.Time `json:"at"`
}

// Build renders the notification text for kind.
// source is the host:port of the relay's source; detail is optional context (an error).
func Build(kind Kind, source, session, detail string, at time.Time) Notification {
	n := Notification{
		Kind:    kind,
		Event:   kind.String(),
		Urgency: UrgencyNormal,
		Session: session,
		At:      at,
	}

	switch kind {
	case KindStarted:
		n.Title = "AIS forwarder started"
		n.Message = fmt.Sprintf("Connected to AIS source %s", source)
	case KindRestored:
		n.Title = "AIS connection restored"
		n.Message = fmt.Sprintf("Reconnected to AIS source %s", source)
	case KindLost:
		n.Title = "AIS connection lost"
		n.Message = fmt.Sprintf("Lost connection to AIS source %s", source)
		n.Urgency = UrgencyCritical
	case KindFailed:
		n.Title = "AIS connection failed"
		n.Message = fmt.Sprintf("Cannot connect to AIS source %s", source)
		n.Urgency = UrgencyCritical
	}

	if detail != "" {
		n.Message += ": " + detail
	}
	return n
}
