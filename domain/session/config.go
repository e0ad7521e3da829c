package session

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"powertun/domain/mode"
)

const (
	DefaultPort               = 6666
	DefaultDeviceOpenAttempts = 3
	DefaultDeviceOpenBackoff  = 200 * time.Millisecond
)

// Config is the resolved session configuration. It is built once at startup
// and handed by value to every component; nothing mutates it afterwards.
type Config struct {
	InterfaceName      string        `json:"InterfaceName"`
	Role               mode.Mode     `json:"Role"`
	Protocol           Protocol      `json:"Protocol"`
	DeviceKind         DeviceKind    `json:"DeviceKind"`
	PeerAddress        string        `json:"PeerAddress,omitempty"`
	Port               int           `json:"Port"`
	ListenAddress      string        `json:"ListenAddress,omitempty"`
	DialTimeoutMs      int           `json:"DialTimeoutMs,omitempty"`
	DeviceBackend      DeviceBackend `json:"DeviceBackend"`
	DeviceOpenAttempts int           `json:"DeviceOpenAttempts"`
	DeviceOpenBackoff  time.Duration `json:"-"`
	Verbose            bool          `json:"Verbose"`
	LogFile            string        `json:"LogFile,omitempty"`
}

// DefaultConfig is a TCP/TUN server on port 6666 with no interface name set.
func DefaultConfig() Config {
	return Config{
		Role:               mode.Server,
		Protocol:           TCP,
		DeviceKind:         TUN,
		Port:               DefaultPort,
		DeviceBackend:      KernelBackend,
		DeviceOpenAttempts: DefaultDeviceOpenAttempts,
		DeviceOpenBackoff:  DefaultDeviceOpenBackoff,
	}
}

// Validate returns a *ConfigurationError describing the first problem found.
func (c Config) Validate() error {
	if c.InterfaceName == "" {
		return NewConfigurationError("interface name is required", nil)
	}
	if len(c.InterfaceName) >= 16 {
		return NewConfigurationError(fmt.Sprintf("interface name %q is longer than 15 bytes", c.InterfaceName), nil)
	}
	switch c.Protocol {
	case TCP, UDP:
	default:
		return NewConfigurationError("transport must be TCP or UDP", nil)
	}
	switch c.DeviceKind {
	case TUN, TAP:
	default:
		return NewConfigurationError("device kind must be TUN or TAP", nil)
	}
	if _, err := ParseDeviceBackend(string(c.DeviceBackend)); err != nil {
		return NewConfigurationError("invalid device backend", err)
	}
	if c.DeviceOpenAttempts < 1 {
		return NewConfigurationError("device open attempts must be at least 1", nil)
	}
	if c.DeviceOpenBackoff < 0 {
		return NewConfigurationError("device open backoff must not be negative", nil)
	}
	if c.DialTimeoutMs < 0 {
		return NewConfigurationError("dial timeout must not be negative", nil)
	}

	switch c.Role {
	case mode.Client:
		if c.PeerAddress == "" {
			return NewConfigurationError("client role requires a peer address", nil)
		}
		if c.Port < 1 || c.Port > 65535 {
			return NewConfigurationError(fmt.Sprintf("port %d is outside 1-65535", c.Port), nil)
		}
	case mode.Server:
		// 0 lets the kernel choose.
		if c.Port < 0 || c.Port > 65535 {
			return NewConfigurationError(fmt.Sprintf("port %d is outside 0-65535", c.Port), nil)
		}
		if c.ListenAddress != "" {
			if _, err := netip.ParseAddr(c.ListenAddress); err != nil {
				return NewConfigurationError("invalid listen address", err)
			}
		}
	default:
		return NewConfigurationError("role must be client or server", nil)
	}
	return nil
}

// PeerEndpoint is the host:port a client sends to.
func (c Config) PeerEndpoint() string {
	return net.JoinHostPort(c.PeerAddress, strconv.Itoa(c.Port))
}

// ListenEndpoint is the host:port a server binds.
func (c Config) ListenEndpoint() string {
	return net.JoinHostPort(c.ListenAddress, strconv.Itoa(c.Port))
}

func (c Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMs) * time.Millisecond
}
