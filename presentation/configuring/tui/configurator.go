package tui

import (
	"fmt"
	"strconv"
	"strings"

	"powertun/domain/mode"
	"powertun/domain/session"
)

const (
	clientOption = "client"
	serverOption = "server"
)

// Configurator walks the user through the session settings, starting from an
// already merged configuration and returning the edited copy.
type Configurator struct {
	selectors SelectorFactory
	inputs    TextInputFactory
}

func NewConfigurator(selectors SelectorFactory, inputs TextInputFactory) *Configurator {
	return &Configurator{selectors: selectors, inputs: inputs}
}

func (c *Configurator) Configure(base session.Config) (session.Config, error) {
	cfg := base

	role, err := c.selectOne("Select role", []string{clientOption, serverOption})
	if err != nil {
		return cfg, err
	}
	if cfg.Role, err = mode.Parse(role); err != nil {
		return cfg, err
	}

	protocol, err := c.selectOne("Select transport", []string{session.TCP.String(), session.UDP.String()})
	if err != nil {
		return cfg, err
	}
	if cfg.Protocol, err = session.ParseProtocol(protocol); err != nil {
		return cfg, err
	}

	kind, err := c.selectOne("Select device kind", []string{session.TUN.String(), session.TAP.String()})
	if err != nil {
		return cfg, err
	}
	if cfg.DeviceKind, err = session.ParseDeviceKind(kind); err != nil {
		return cfg, err
	}

	if cfg.InterfaceName, err = c.text("Interface name", cfg.InterfaceName); err != nil {
		return cfg, err
	}

	if cfg.Role == mode.Client {
		if cfg.PeerAddress, err = c.text("Peer address", cfg.PeerAddress); err != nil {
			return cfg, err
		}
	}

	port, err := c.text("Port", strconv.Itoa(cfg.Port))
	if err != nil {
		return cfg, err
	}
	if cfg.Port, err = strconv.Atoi(port); err != nil {
		return cfg, fmt.Errorf("invalid port %q: %w", port, err)
	}

	return cfg, nil
}

func (c *Configurator) selectOne(placeholder string, options []string) (string, error) {
	s, err := c.selectors.NewTuiSelector(placeholder, options)
	if err != nil {
		return "", err
	}
	return s.SelectOne()
}

func (c *Configurator) text(placeholder, initial string) (string, error) {
	in, err := c.inputs.NewTextInput(placeholder, initial)
	if err != nil {
		return "", err
	}
	v, err := in.Value()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}
