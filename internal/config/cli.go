package config

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/timer"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Sound         string
	Cmd           string
	StoreURL      string
	Work          int
	Break         int
	DisableNotify bool
	Remote        bool
	NoColor       bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Work:          ctx.Int("work"),
			Break:         ctx.Int("break"),
			Sound:         ctx.String("sound"),
			Cmd:           ctx.String("cmd"),
			StoreURL:      ctx.String("store-url"),
			DisableNotify: ctx.Bool("disable-notification"),
			Remote:        ctx.Bool("remote"),
			NoColor:       ctx.Bool("no-color"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Work != 0 {
		c.Timer.Work = opts.Work
	}

	if opts.Break != 0 {
		c.Timer.Break = opts.Break
	}

	if opts.Sound != "" {
		c.Alert.Sound = opts.Sound
	}

	if opts.Cmd != "" {
		c.Alert.Cmd = opts.Cmd
	}

	if opts.DisableNotify {
		c.Alert.Notify = false
	}

	if opts.Remote {
		c.Store.Backend = BackendRemote
	}

	if opts.StoreURL != "" {
		c.Store.URL = opts.StoreURL
		c.Store.Backend = BackendRemote
	}

	if opts.NoColor {
		c.Display.NoColor = true
	}

	if c.Alert.Sound == "" {
		c.Alert.Sound = timer.SoundOff
	}
}
