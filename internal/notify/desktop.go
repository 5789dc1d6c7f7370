// internal/notify/desktop.go
package notify

import (
	"context"
	"fmt"
	"os/user"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify  = notificationsService + ".Notify"
)

// urgency hint values of the freedesktop notification spec
var urgencyHint = map[Urgency]byte{
	UrgencyNormal:   1,
	UrgencyCritical: 2,
}

// desktopCall is one org.freedesktop.Notifications.Notify request.
type desktopCall struct {
	AppName string
	Summary string
	Body    string
	Urgency byte
}

// DesktopSink raises a user-facing alert on the session bus.
//
// When Target names a local user, the alert goes to that user's session bus
// (/run/user/<uid>/bus), so a system daemon can reach a logged-in desktop.
type DesktopSink struct {
	Target  string
	AppName string

	// call delivers the request on the bus at addr ("" = own session); replaced in tests.
	call func(ctx context.Context, addr string, c desktopCall) error
}

// NewDesktopSink returns a sink for the given user ("" = the daemon's own session).
func NewDesktopSink(target, appName string) *DesktopSink {
	return &DesktopSink{Target: target, AppName: appName, call: busNotify}
}

func (s *DesktopSink) Name() string { return "desktop" }

func (s *DesktopSink) Send(ctx context.Context, n Notification) error {
	addr, err := s.busAddress()
	if err != nil {
		return err
	}

	u, ok := urgencyHint[n.Urgency]
	if !ok {
		u = urgencyHint[UrgencyNormal]
	}

	err = s.call(ctx, addr, desktopCall{
		AppName: s.AppName,
		Summary: n.Title,
		Body:    n.Message,
		Urgency: u,
	})
	if err != nil {
		return fmt.Errorf("desktop: notify: %w", err)
	}
	return nil
}

func (s *DesktopSink) busAddress() (string, error) {
	if s.Target == "" {
		return "", nil
	}
	u, err := user.Lookup(s.Target)
	if err != nil {
		return "", fmt.Errorf("desktop: lookup user %q: %w", s.Target, err)
	}
	return "unix:path=/run/user/" + u.Uid + "/bus", nil
}

// busNotify opens a connection per call and closes it when done.
func busNotify(ctx context.Context, addr string, c desktopCall) error {
	var (
		conn *dbus.Conn
		err  error
	)
	if addr == "" {
		conn, err = dbus.ConnectSessionBus(dbus.WithContext(ctx))
	} else {
		conn, err = dbus.Connect(addr, dbus.WithContext(ctx))
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(c.Urgency)}
	obj := conn.Object(notificationsService, notificationsPath)
	return obj.CallWithContext(ctx, notificationsNotify, 0,
		c.AppName,  // app_name
		uint32(0),  // replaces_id
		"",         // app_icon
		c.Summary,  // summary
		c.Body,     // body
		[]string{}, // actions
		hints,
		int32(-1), // expire_timeout: server default
	).Err
}
