// Package vpn provides VPN connection management functionality.
// This file contains the Client type which lists, connects and
// disconnects NetworkManager VPN connections through nmcli.
package vpn

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/common"
)

// passwordSecret is the nmcli secret key fed through passwd-file.
const passwordSecret = "vpn.secrets.password"

// Client drives nmcli through a command.Runner.
type Client struct {
	runner command.Runner
}

// NewClient creates a Client.
func NewClient(runner command.Runner) *Client {
	return &Client{runner: runner}
}

// Profiles returns every VPN connection known to NetworkManager.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	output, err := command.Output(ctx, c.runner, []string{common.NetworkBinary, "-t", "connection"}, "")
	if err != nil {
		return nil, common.WrapError(err, "failed to list connections")
	}
	return parseProfiles(output), nil
}

// ProfileNames returns the names of every VPN connection, sorted.
func (c *Client) ProfileNames(ctx context.Context) ([]string, error) {
	profiles, err := c.Profiles(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names, nil
}

// IsConnected reports whether the VPN called name is active.
func (c *Client) IsConnected(ctx context.Context, name string) (bool, error) {
	profiles, err := c.Profiles(ctx)
	if err != nil {
		return false, err
	}

	for _, p := range profiles {
		if p.Name == name && p.Active() {
			return true, nil
		}
	}
	return false, nil
}

// Connect brings the VPN called name up. A non-empty password is fed to
// nmcli on stdin as the VPN secret.
func (c *Client) Connect(ctx context.Context, name, password string) error {
	wait := strconv.Itoa(int(common.ConnectionTimeout.Seconds()))
	args := []string{common.NetworkBinary, "--wait", wait, "connection", "up", name}

	stdin := ""
	if password != "" {
		args = append(args, "passwd-file", "/dev/fd/0")
		stdin = fmt.Sprintf("%s:%s\n", passwordSecret, password)
	}

	common.LogInfo("Connecting to %s", name)
	if _, err := command.ReturnCode(ctx, c.runner, args, stdin); err != nil {
		return common.WrapError(err, fmt.Sprintf("failed to connect to %s", name))
	}
	return nil
}

// Disconnect brings the VPN called name down.
func (c *Client) Disconnect(ctx context.Context, name string) error {
	common.LogInfo("Disconnecting from %s", name)
	args := []string{common.NetworkBinary, "connection", "down", name}
	if _, err := command.ReturnCode(ctx, c.runner, args, ""); err != nil {
		return common.WrapError(err, fmt.Sprintf("failed to disconnect from %s", name))
	}
	return nil
}
