// Package vault drives the Bitwarden CLI.
//
// The client moves through three states: logged out, logged in but
// locked, and unlocked. Unlocking yields a session token that every
// item lookup has to carry; locking or logging out forgets it.
package vault

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/common"
)

var baseCommand = []string{common.VaultBinary, "--nointeraction", "--raw"}

// Client drives the bw binary through a command.Runner.
type Client struct {
	runner  command.Runner
	session string
	now     func() time.Time
}

// NewClient creates a locked, session-less client.
func NewClient(runner command.Runner) *Client {
	return &Client{runner: runner, now: time.Now}
}

func args(extra ...string) []string {
	return append(append([]string(nil), baseCommand...), extra...)
}

// IsLoggedIn reports whether bw has an account logged in.
// Any failure of the check means "not logged in".
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	code, err := command.ReturnCode(ctx, c.runner, args("login", "--check"), "")
	if err != nil {
		common.LogDebug("Vault login check failed: %v", err)
		return false
	}
	return code == 0
}

// Login logs in with email and masterPassword. When code is not empty it
// is sent as a two-step login code for the given method.
func (c *Client) Login(ctx context.Context, email, masterPassword, code string, method int) error {
	loginArgs := args("login", email, masterPassword)
	if code != "" {
		loginArgs = append(loginArgs, "--method", strconv.Itoa(method), "--code", code)
	}

	if _, err := command.ReturnCode(ctx, c.runner, loginArgs, ""); err != nil {
		return common.WrapError(err, "vault login failed")
	}
	common.LogInfo("Logged in to the vault as %s", email)
	return nil
}

// Unlock unlocks the vault and keeps the returned session token.
func (c *Client) Unlock(ctx context.Context, masterPassword string) (string, error) {
	session, err := command.Output(ctx, c.runner, args("unlock", masterPassword), "")
	if err != nil {
		return "", common.WrapError(err, "vault unlock failed")
	}
	c.session = session
	common.LogDebug("Vault unlocked")
	return session, nil
}

// Lock forgets the session token and locks the vault.
func (c *Client) Lock(ctx context.Context) error {
	c.session = ""
	if _, err := command.ReturnCode(ctx, c.runner, args("lock"), ""); err != nil {
		return common.WrapError(err, "vault lock failed")
	}
	return nil
}

// Logout forgets the session token and logs the account out.
func (c *Client) Logout(ctx context.Context) error {
	c.session = ""
	if _, err := command.ReturnCode(ctx, c.runner, args("logout"), ""); err != nil {
		return common.WrapError(err, "vault logout failed")
	}
	return nil
}

// Unlocked reports whether a session token is held.
func (c *Client) Unlocked() bool {
	return c.session != ""
}

// Invoke runs an authenticated subcommand with the session token and
// returns its output.
func (c *Client) Invoke(ctx context.Context, subcommand string, extra ...string) (string, error) {
	if c.session == "" {
		return "", common.ErrVaultLocked
	}
	return command.Output(ctx, c.runner, args(append([]string{subcommand, "--session", c.session}, extra...)...), "")
}

// Get fetches one field of an item, e.g. "password" or "totp".
func (c *Client) Get(ctx context.Context, field, item string) (string, error) {
	return c.Invoke(ctx, "get", field, item)
}

// Credential returns the item's password followed by its current TOTP
// code. An item without a usable TOTP yields the password alone; an
// item whose password cannot be read is an error.
func (c *Client) Credential(ctx context.Context, item string) (string, error) {
	password, err := c.Get(ctx, "password", item)
	if err != nil {
		return "", err
	}

	code, err := c.Get(ctx, "totp", item)
	if err != nil {
		common.LogDebug("No TOTP for %s, using the password alone: %v", item, err)
		return password, nil
	}

	code, err = c.oneTimeCode(code)
	if err != nil {
		common.LogWarn("Ignoring TOTP of %s: %v", item, err)
		return password, nil
	}

	return password + code, nil
}

// oneTimeCode turns an otpauth:// key URI into its current code.
// Anything else is already a code.
func (c *Client) oneTimeCode(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "otpauth://") {
		return value, nil
	}

	key, err := otp.NewKeyFromURL(value)
	if err != nil {
		return "", err
	}

	return totp.GenerateCodeCustom(key.Secret(), c.now(), totp.ValidateOpts{
		Period:    uint(key.Period()),
		Digits:    key.Digits(),
		Algorithm: key.Algorithm(),
	})
}
