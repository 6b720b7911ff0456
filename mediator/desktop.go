package mediator

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/bitvpn/common"
)

const (
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod        = common.NotificationsBus + ".Notify"
	notificationIcon    = "network-vpn"
	notificationTimeout = int32(-1) // server default
)

// notifier is the part of dbus.BusObject used to send notifications.
type notifier interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DesktopOutput sends freedesktop notifications over D-Bus.
type DesktopOutput struct {
	obj     notifier
	appName string
}

// NewDesktopOutput sends notifications through obj on behalf of appName.
func NewDesktopOutput(obj notifier, appName string) *DesktopOutput {
	return &DesktopOutput{obj: obj, appName: appName}
}

// Show implements Output.
func (d *DesktopOutput) Show(ctx context.Context, n Notification) error {
	summary := n.Summary
	if summary == "" {
		summary = d.appName
	}

	urgency := n.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}

	ctx, cancel := context.WithTimeout(ctx, common.NotificationTimeout)
	defer cancel()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency.level()),
	}
	call := d.obj.CallWithContext(ctx, notifyMethod, 0,
		d.appName, uint32(0), notificationIcon, summary, n.Body,
		[]string{}, hints, notificationTimeout)
	if call.Err != nil {
		return fmt.Errorf("%w: notification failed: %v", common.ErrMediator, call.Err)
	}
	return nil
}

// sessionNotifier returns the notification service of the session bus
// when one is running or can be activated.
func sessionNotifier() (notifier, bool) {
	conn, err := dbus.SessionBus()
	if err != nil {
		common.LogDebug("No session bus: %v", err)
		return nil, false
	}

	if !busHasName(conn.BusObject(), common.NotificationsBus) {
		return nil, false
	}
	return conn.Object(common.NotificationsBus, notificationsPath), true
}

func busHasName(bus dbus.BusObject, name string) bool {
	var owned bool
	if err := bus.Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned); err == nil && owned {
		return true
	}

	var activatable []string
	if err := bus.Call("org.freedesktop.DBus.ListActivatableNames", 0).Store(&activatable); err != nil {
		return false
	}
	for _, n := range activatable {
		if n == name {
			return true
		}
	}
	return false
}
