// Package config provides configuration management for bitvpn.
// Values are resolved with the precedence command line > cache file >
// defaults, and the values that differ from their defaults are written
// back to the cache file at the end of a run.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"

	"github.com/yllada/bitvpn/common"
)

// Config represents the resolved configuration of one run.
type Config struct {
	// TwoFactor prompts for a 2FA code when logging in to the vault.
	TwoFactor bool
	// BwItem is the vault item holding the VPN password.
	BwItem string
	// Cache is the path of the cache file, possibly starting with "~".
	Cache string
	// ForceStd forces terminal input and output.
	ForceStd bool
	// Method is the 2FA method id passed to the vault; nil when unset.
	Method *int
	// NoCache skips reading the cache file.
	NoCache bool
	// NoSave skips writing the cache file.
	NoSave bool
	// VPNName is the NetworkManager connection to bring up.
	VPNName string
	// Lock locks the vault once the VPN password has been fetched.
	Lock bool
	// RememberEmail keeps the vault email in the system keyring.
	RememberEmail bool
	// Verbose enables debug logging.
	Verbose bool
	// Disconnect brings the VPN down instead of up.
	Disconnect bool

	cachePath string
	explicit  map[string]bool
}

// DefaultConfig returns the configuration used when nothing is given.
func DefaultConfig() *Config {
	return &Config{
		Cache:    common.DefaultCacheFile,
		explicit: make(map[string]bool),
	}
}

// New parses args (including the program name) and verifies that the
// cache file can be read. It returns common.ErrHelpShown when args asked
// for help or the version instead of a run.
func New(args []string, version string, out io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	if len(args) == 0 {
		args = []string{common.AppName}
	}

	parsed := false
	app := cli.NewApp()
	app.Name = common.AppName
	app.Usage = "connect to a NetworkManager VPN with a password stored in Bitwarden"
	app.Version = version
	app.Writer = out
	app.ErrWriter = out
	app.Flags = flags()
	app.Action = func(c *cli.Context) error {
		if c.NArg() > 0 {
			return fmt.Errorf("%w: unexpected argument %q", common.ErrInvalidOption, c.Args().First())
		}
		for _, opt := range options {
			if !c.IsSet(opt.flagName()) {
				continue
			}
			if err := opt.fromContext(cfg, c); err != nil {
				return err
			}
			cfg.explicit[opt.name] = true
		}
		parsed = true
		return nil
	}

	if err := app.Run(args); err != nil {
		return nil, err
	}
	if !parsed {
		return nil, common.ErrHelpShown
	}

	cachePath, err := common.ExpandPath(cfg.Cache)
	if err != nil {
		return nil, err
	}
	cfg.cachePath = cachePath

	if !cfg.NoCache {
		if err := checkReadable(cfg.cachePath); err != nil {
			return nil, fmt.Errorf("%w: cache file %s is not readable: %v", common.ErrPermissionDenied, cfg.cachePath, err)
		}
	}

	return cfg, nil
}

// CachePath returns the cache file path with "~" expanded.
func (c *Config) CachePath() string {
	return c.cachePath
}

// Load overlays the cached values on the options not given on the
// command line, then verifies that the cache file can be written.
// A missing or malformed cache file counts as an empty cache.
func (c *Config) Load() error {
	if !c.NoCache {
		if err := c.applyCache(); err != nil {
			return err
		}
	}

	if !c.NoSave {
		if err := checkWritable(c.cachePath); err != nil {
			return fmt.Errorf("%w: cache file %s is not writable: %v", common.ErrPermissionDenied, c.cachePath, err)
		}
	}

	return nil
}

func (c *Config) applyCache() error {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			common.LogDebug("No cache file at %s", c.cachePath)
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrPermissionDenied, err)
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		common.LogWarn("Ignoring malformed cache file %s: %v", c.cachePath, err)
		return nil
	}

	for key, value := range values {
		opt, ok := lookup(key)
		if !ok || !opt.cacheable || c.explicit[opt.name] {
			continue
		}
		if err := opt.set(c, value); err != nil {
			common.LogDebug("Ignoring cached %s: %v", key, err)
		}
	}

	return nil
}

// Save writes the cacheable values that differ from their defaults to
// the cache file, replacing its contents.
func (c *Config) Save() error {
	items := make(map[string]interface{})
	for _, opt := range options {
		if !opt.cacheable || opt.isDefault(c) {
			continue
		}
		items[opt.name] = opt.get(c)
	}

	data, err := yaml.Marshal(items)
	if err != nil {
		common.LogWarn("Could not serialize cache: %v", err)
		return nil
	}

	if err := os.WriteFile(c.cachePath, data, 0600); err != nil {
		return fmt.Errorf("error saving cache file: %w", err)
	}

	common.LogDebug("Saved %d cached values to %s", len(items), c.cachePath)
	return nil
}

// Get returns the value of the option called name. Hyphens and
// underscores are interchangeable in name.
func (c *Config) Get(name string) (interface{}, error) {
	opt, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownOption, name)
	}
	return opt.get(c), nil
}

// Set changes the value of the option called name for the rest of the run.
func (c *Config) Set(name string, value interface{}) error {
	opt, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownOption, name)
	}
	return opt.set(c, value)
}

// IsExplicit reports whether name was given on the command line.
func (c *Config) IsExplicit(name string) bool {
	opt, ok := lookup(name)
	return ok && c.explicit[opt.name]
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	return unix.Access(path, unix.R_OK)
}

func checkWritable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return unix.Access(filepath.Dir(path), unix.W_OK)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	return unix.Access(path, unix.W_OK)
}
