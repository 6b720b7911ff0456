// Package vpn provides VPN connection management functionality.
// This file contains the Profile type and the parser for the terse
// connection listing printed by nmcli.
package vpn

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yllada/bitvpn/common"
)

// connectionTypeVPN is the TYPE column value of VPN connections.
const connectionTypeVPN = "vpn"

// Profile represents a NetworkManager VPN connection.
// Profiles are read live from nmcli on every query and never stored.
type Profile struct {
	// Name is the connection name, unique within NetworkManager.
	Name string
	// UUID is the connection UUID, uuid.Nil if nmcli printed something unparsable.
	UUID uuid.UUID
	// Device is the interface the connection is bound to.
	// It is empty unless the connection is active.
	Device string
}

// Active reports whether the profile is bound to a device.
func (p Profile) Active() bool {
	return p.Device != ""
}

// parseProfiles parses the output of "nmcli -t connection".
// Each line is NAME:UUID:TYPE:DEVICE; lines with any other number of
// fields and non-VPN connections are skipped.
func parseProfiles(output string) []Profile {
	profiles := make([]Profile, 0)

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) != 4 || fields[2] != connectionTypeVPN {
			continue
		}

		id, err := uuid.Parse(fields[1])
		if err != nil {
			common.LogDebug("Connection %q has an invalid UUID %q: %v", fields[0], fields[1], err)
			id = uuid.Nil
		}

		profiles = append(profiles, Profile{
			Name:   fields[0],
			UUID:   id,
			Device: fields[3],
		})
	}

	return profiles
}
