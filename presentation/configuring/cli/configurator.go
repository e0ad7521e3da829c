package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jessevdk/go-flags"

	"powertun/domain/app"
	"powertun/domain/mode"
	"powertun/domain/session"
	"powertun/presentation/configuring/file"
)

type Action int

const (
	Run Action = iota
	Help
	Version
)

// Request is what the command line asked for.
type Request struct {
	Action Action
	Config session.Config
}

// Prompter edits a configuration interactively.
type Prompter interface {
	Configure(base session.Config) (session.Config, error)
}

type Configurator struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter Prompter
}

// NewConfigurator writes requested help to stdout and the usage that follows
// a configuration error to stderr. prompter may be nil when no terminal UI is
// available; --interactive then fails.
func NewConfigurator(stdout, stderr io.Writer, prompter Prompter) *Configurator {
	return &Configurator{stdout: stdout, stderr: stderr, prompter: prompter}
}

// Configure resolves defaults, then the --config file, then flags, then the
// interactive prompts, and validates the result.
func (c *Configurator) Configure(args []string) (Request, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = app.Name
	parser.Usage = "-i <name> [-c <ip> | -s] [OPTIONS]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(c.stdout)
			return Request{Action: Help}, nil
		}
		return c.usageError(parser, session.NewConfigurationError("invalid arguments", err))
	}
	if len(rest) > 0 {
		return c.usageError(parser, session.NewConfigurationError(
			fmt.Sprintf("unexpected argument %q", strings.Join(rest, " ")), nil))
	}
	if opts.Version {
		return Request{Action: Version}, nil
	}

	cfg := session.DefaultConfig()
	if opts.ConfigFile != "" {
		if cfg, err = file.NewReader(opts.ConfigFile).Read(cfg); err != nil {
			return c.usageError(parser, err)
		}
	}

	isSet := func(longName string) bool {
		option := parser.FindOptionByLongName(longName)
		return option != nil && option.IsSet()
	}
	if cfg, err = apply(opts, isSet, cfg); err != nil {
		return c.usageError(parser, err)
	}

	if opts.Interactive {
		if c.prompter == nil {
			return Request{}, session.NewConfigurationError("interactive mode is not available", nil)
		}
		if cfg, err = c.prompter.Configure(cfg); err != nil {
			return Request{}, session.NewConfigurationError("interactive configuration failed", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return c.usageError(parser, err)
	}
	return Request{Action: Run, Config: cfg}, nil
}

func (c *Configurator) usageError(parser *flags.Parser, err error) (Request, error) {
	parser.WriteHelp(c.stderr)
	return Request{}, err
}

// apply lays the flags given on the command line over cfg. isSet reports
// whether a flag was present, so an explicit zero still overrides the file.
func apply(opts Options, isSet func(longName string) bool, cfg session.Config) (session.Config, error) {
	if opts.Client != "" && opts.Server {
		return cfg, session.NewConfigurationError("--client and --server are mutually exclusive", nil)
	}
	if opts.TCP && opts.UDP {
		return cfg, session.NewConfigurationError("--tcp and --udp are mutually exclusive", nil)
	}
	if opts.TUN && opts.TAP {
		return cfg, session.NewConfigurationError("--tun and --tap are mutually exclusive", nil)
	}

	if opts.Interface != "" {
		cfg.InterfaceName = opts.Interface
	}
	switch {
	case opts.Client != "":
		cfg.Role = mode.Client
		cfg.PeerAddress = opts.Client
	case opts.Server:
		cfg.Role = mode.Server
	}
	switch {
	case opts.TCP:
		cfg.Protocol = session.TCP
	case opts.UDP:
		cfg.Protocol = session.UDP
	}
	switch {
	case opts.TUN:
		cfg.DeviceKind = session.TUN
	case opts.TAP:
		cfg.DeviceKind = session.TAP
	}
	if isSet("port") {
		if opts.Port < 1 || opts.Port > 65535 {
			return cfg, session.NewConfigurationError(fmt.Sprintf("port %d is outside 1-65535", opts.Port), nil)
		}
		cfg.Port = opts.Port
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
	if opts.Listen != "" {
		cfg.ListenAddress = opts.Listen
	}
	if isSet("dial-timeout-ms") {
		cfg.DialTimeoutMs = opts.DialTimeoutMs
	}
	if opts.DeviceBackend != "" {
		backend, err := session.ParseDeviceBackend(opts.DeviceBackend)
		if err != nil {
			return cfg, session.NewConfigurationError("invalid --device-backend", err)
		}
		cfg.DeviceBackend = backend
	}
	if isSet("device-open-attempts") {
		cfg.DeviceOpenAttempts = opts.DeviceOpenAttempts
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	return cfg, nil
}
