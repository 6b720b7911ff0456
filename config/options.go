package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/yllada/bitvpn/common"
)

// option binds a Config field to its flag and its cache key.
type option struct {
	name      string // cache key, underscored
	usage     string
	cacheable bool

	flag        func(name, usage string) cli.Flag
	fromContext func(c *Config, ctx *cli.Context) error
	get         func(c *Config) interface{}
	set         func(c *Config, v interface{}) error
	isDefault   func(c *Config) bool
}

func (o option) flagName() string {
	return strings.ReplaceAll(o.name, "_", "-")
}

var options = []option{
	boolOption("two_factor", "Use 2FA to log in to Bitwarden", true,
		func(c *Config) *bool { return &c.TwoFactor }),
	stringOption("bw_item", "Bitwarden item with the VPN password", "", true,
		func(c *Config) *string { return &c.BwItem }),
	stringOption("cache", "Path to the cache file", common.DefaultCacheFile, false,
		func(c *Config) *string { return &c.Cache }),
	boolOption("force_std", "Force the use of standard input and output", true,
		func(c *Config) *bool { return &c.ForceStd }),
	intOption("method", "2FA method to use during Bitwarden login", true,
		func(c *Config) **int { return &c.Method }),
	boolOption("no_cache", "Do not use the cached values", false,
		func(c *Config) *bool { return &c.NoCache }),
	boolOption("no_save", "Do not save the arguments as default values", false,
		func(c *Config) *bool { return &c.NoSave }),
	stringOption("vpn_name", "Name of the VPN to connect to", "", true,
		func(c *Config) *string { return &c.VPNName }),
	boolOption("lock", "Lock Bitwarden once the VPN password has been fetched", true,
		func(c *Config) *bool { return &c.Lock }),
	boolOption("remember_email", "Keep the Bitwarden email in the system keyring", true,
		func(c *Config) *bool { return &c.RememberEmail }),
	boolOption("verbose", "Enable debug logging", false,
		func(c *Config) *bool { return &c.Verbose }),
	boolOption("disconnect", "Disconnect from the VPN instead of connecting", false,
		func(c *Config) *bool { return &c.Disconnect }),
}

func flags() []cli.Flag {
	out := make([]cli.Flag, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.flag(opt.flagName(), opt.usage))
	}
	return out
}

// lookup finds an option by cache key or flag name.
func lookup(name string) (option, bool) {
	key := strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
	for _, opt := range options {
		if opt.name == key {
			return opt, true
		}
	}
	return option{}, false
}

func boolOption(name, usage string, cacheable bool, field func(*Config) *bool) option {
	return option{
		name:      name,
		usage:     usage,
		cacheable: cacheable,
		flag: func(name, usage string) cli.Flag {
			return cli.BoolFlag{Name: name, Usage: usage}
		},
		fromContext: func(c *Config, ctx *cli.Context) error {
			*field(c) = ctx.Bool(strings.ReplaceAll(name, "_", "-"))
			return nil
		},
		get: func(c *Config) interface{} { return *field(c) },
		set: func(c *Config, v interface{}) error {
			switch b := v.(type) {
			case bool:
				*field(c) = b
			case string:
				parsed, err := strconv.ParseBool(b)
				if err != nil {
					return invalid(name, v)
				}
				*field(c) = parsed
			default:
				return invalid(name, v)
			}
			return nil
		},
		isDefault: func(c *Config) bool { return !*field(c) },
	}
}

func stringOption(name, usage, def string, cacheable bool, field func(*Config) *string) option {
	return option{
		name:      name,
		usage:     usage,
		cacheable: cacheable,
		flag: func(name, usage string) cli.Flag {
			return cli.StringFlag{Name: name, Value: def, Usage: usage}
		},
		fromContext: func(c *Config, ctx *cli.Context) error {
			*field(c) = ctx.String(strings.ReplaceAll(name, "_", "-"))
			return nil
		},
		get: func(c *Config) interface{} { return *field(c) },
		set: func(c *Config, v interface{}) error {
			switch s := v.(type) {
			case string:
				*field(c) = s
			case int, int64, float64:
				*field(c) = fmt.Sprint(s)
			default:
				return invalid(name, v)
			}
			return nil
		},
		isDefault: func(c *Config) bool { return *field(c) == def },
	}
}

func intOption(name, usage string, cacheable bool, field func(*Config) **int) option {
	return option{
		name:      name,
		usage:     usage,
		cacheable: cacheable,
		flag: func(name, usage string) cli.Flag {
			return cli.IntFlag{Name: name, Usage: usage}
		},
		fromContext: func(c *Config, ctx *cli.Context) error {
			n := ctx.Int(strings.ReplaceAll(name, "_", "-"))
			*field(c) = &n
			return nil
		},
		get: func(c *Config) interface{} {
			if p := *field(c); p != nil {
				return *p
			}
			return nil
		},
		set: func(c *Config, v interface{}) error {
			var n int
			switch x := v.(type) {
			case nil:
				*field(c) = nil
				return nil
			case int:
				n = x
			case *int:
				*field(c) = x
				return nil
			case string:
				parsed, err := strconv.Atoi(x)
				if err != nil {
					return invalid(name, v)
				}
				n = parsed
			default:
				return invalid(name, v)
			}
			*field(c) = &n
			return nil
		},
		isDefault: func(c *Config) bool { return *field(c) == nil },
	}
}

func invalid(name string, v interface{}) error {
	return fmt.Errorf("%w: %s=%v (%T)", common.ErrInvalidOption, name, v, v)
}
