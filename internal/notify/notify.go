// Package notify shows a desktop notification for each track the playback
// session starts, through the freedesktop notification service.
package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	busName      = "org.freedesktop.Notifications"
	busPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod = busName + ".Notify"
	closeMethod  = busName + ".CloseNotification"

	appName  = "Music Wave"
	appEntry = "musicwave"
	appIcon  = "audio-x-generic"

	// Groups track changes on servers that support categories.
	trackCategory = "x-gnome.music"
	urgencyLow    = byte(0)
	trackTimeout  = int32(5000) // ms
)

// caller is the part of dbus.BusObject the surface talks to.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}
