// Package cli ties the configuration, the vault, NetworkManager and the
// user together: it picks a VPN, fetches its one-time password from the
// vault and brings the connection up.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/yllada/bitvpn/common"
	"github.com/yllada/bitvpn/config"
	"github.com/yllada/bitvpn/keyring"
	"github.com/yllada/bitvpn/mediator"
)

// Prompts shown to the user.
const (
	promptVPN      = "Select a VPN"
	promptItem     = "Bitwarden item"
	promptEmail    = "Bitwarden email"
	promptPassword = "Bitwarden password"
	promptCode     = "2FA token"
)

// Vault is the part of vault.Client the flow needs.
type Vault interface {
	IsLoggedIn(ctx context.Context) bool
	Login(ctx context.Context, email, masterPassword, code string, method int) error
	Unlock(ctx context.Context, masterPassword string) (string, error)
	Lock(ctx context.Context) error
	Credential(ctx context.Context, item string) (string, error)
}

// Network is the part of vpn.Client the flow needs.
type Network interface {
	ProfileNames(ctx context.Context) ([]string, error)
	IsConnected(ctx context.Context, name string) (bool, error)
	Connect(ctx context.Context, name, password string) error
	Disconnect(ctx context.Context, name string) error
}

// Secrets stores values across runs; keyring.Store implements it.
type Secrets interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// CLI runs one connect or disconnect.
type CLI struct {
	cfg     *config.Config
	vault   Vault
	network Network
	ui      *mediator.Mediator
	secrets Secrets
}

// New creates a CLI. secrets may be nil when the email is not remembered.
func New(cfg *config.Config, vault Vault, network Network, ui *mediator.Mediator, secrets Secrets) *CLI {
	return &CLI{cfg: cfg, vault: vault, network: network, ui: ui, secrets: secrets}
}

// Run connects to (or, with --disconnect, disconnects from) the
// configured VPN and then saves the configuration unless --no-save.
func (c *CLI) Run(ctx context.Context) error {
	var err error
	if c.cfg.Disconnect {
		err = c.Disconnect(ctx)
	} else {
		err = c.Connect(ctx)
	}
	if err != nil {
		return err
	}

	if c.cfg.NoSave {
		return nil
	}
	return c.cfg.Save()
}

// Connect brings the VPN up unless it already is.
func (c *CLI) Connect(ctx context.Context) error {
	name, err := c.vpnName(ctx)
	if err != nil {
		return err
	}

	connected, err := c.network.IsConnected(ctx, name)
	if err != nil {
		return err
	}
	if connected {
		return c.show(ctx, fmt.Sprintf("Already connected to '%s'", name))
	}

	item, err := c.itemName(ctx)
	if err != nil {
		return err
	}

	if err := c.unlock(ctx); err != nil {
		return err
	}

	password, err := c.vault.Credential(ctx, item)
	if err != nil {
		return err
	}

	if c.cfg.Lock {
		if err := c.vault.Lock(ctx); err != nil {
			return err
		}
	}

	if err := c.network.Connect(ctx, name, password); err != nil {
		return err
	}

	return c.show(ctx, fmt.Sprintf("Connected to '%s'", name))
}

// Disconnect brings the VPN down if it is up. The vault is not touched.
func (c *CLI) Disconnect(ctx context.Context) error {
	name, err := c.vpnName(ctx)
	if err != nil {
		return err
	}

	connected, err := c.network.IsConnected(ctx, name)
	if err != nil {
		return err
	}
	if !connected {
		return c.show(ctx, fmt.Sprintf("Not connected to '%s'", name))
	}

	if err := c.network.Disconnect(ctx, name); err != nil {
		return err
	}
	return c.show(ctx, fmt.Sprintf("Disconnected from '%s'", name))
}

func (c *CLI) vpnName(ctx context.Context) (string, error) {
	if c.cfg.VPNName != "" {
		return c.cfg.VPNName, nil
	}

	names, err := c.network.ProfileNames(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", common.ErrNoProfiles
	}

	name, err := c.ui.Selection(ctx, promptVPN, names)
	if err != nil {
		return "", err
	}
	return name, c.cfg.Set("vpn_name", name)
}

func (c *CLI) itemName(ctx context.Context) (string, error) {
	if c.cfg.BwItem != "" {
		return c.cfg.BwItem, nil
	}

	item, err := c.ui.Text(ctx, promptItem)
	if err != nil {
		return "", err
	}
	return item, c.cfg.Set("bw_item", item)
}

// unlock logs in first when needed. A fresh login asks for the master
// password twice, once for login and once for unlock.
func (c *CLI) unlock(ctx context.Context) error {
	if !c.vault.IsLoggedIn(ctx) {
		if err := c.login(ctx); err != nil {
			return err
		}
	}

	password, err := c.ui.Secret(ctx, promptPassword)
	if err != nil {
		return err
	}
	_, err = c.vault.Unlock(ctx, password)
	return err
}

func (c *CLI) login(ctx context.Context) error {
	email, err := c.email(ctx)
	if err != nil {
		return err
	}

	password, err := c.ui.Secret(ctx, promptPassword)
	if err != nil {
		return err
	}

	var code string
	if c.cfg.TwoFactor {
		if code, err = c.ui.Text(ctx, promptCode); err != nil {
			return err
		}
	}

	method := 0
	if c.cfg.Method != nil {
		method = *c.cfg.Method
	}

	if err := c.vault.Login(ctx, email, password, code, method); err != nil {
		return err
	}

	if c.rememberEmail() {
		if err := c.secrets.Set(keyring.EmailKey, email); err != nil {
			common.LogWarn("Could not remember the vault email: %v", err)
		}
	}
	return nil
}

func (c *CLI) email(ctx context.Context) (string, error) {
	if c.rememberEmail() {
		email, err := c.secrets.Get(keyring.EmailKey)
		if err == nil && email != "" {
			common.LogDebug("Using the remembered vault email")
			return email, nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			common.LogWarn("Could not read the remembered vault email: %v", err)
		}
	}
	return c.ui.Text(ctx, promptEmail)
}

func (c *CLI) rememberEmail() bool {
	return c.cfg.RememberEmail && c.secrets != nil
}

func (c *CLI) show(ctx context.Context, body string) error {
	return c.ui.Show(ctx, mediator.Notification{Body: body})
}
