// Package common provides shared constants, types, and utilities
// used across bitvpn.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "bitvpn"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "bitvpn"
)

// File names used by the application.
const (
	// DefaultCacheFile is the cache file used when --cache is not given.
	DefaultCacheFile = "~/.bitvpn"
	LogFileName      = "bitvpn.log"
)

// External binaries driven by the application.
const (
	VaultBinary      = "bw"
	NetworkBinary    = "nmcli"
	PickerBinary     = "rofi"
	NotificationsBus = "org.freedesktop.Notifications"
)

// Default timeouts.
const (
	// ConnectionTimeout is how long nmcli waits for a VPN to come up.
	ConnectionTimeout = 30 * time.Second
	// NotificationTimeout bounds the D-Bus round trip of a notification.
	NotificationTimeout = 5 * time.Second
)
