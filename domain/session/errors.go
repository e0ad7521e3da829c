package session

import "fmt"

// ConfigurationError reports an unusable or incomplete session configuration.
type ConfigurationError struct {
	Reason string
	Err    error
}

func NewConfigurationError(reason string, err error) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DeviceError reports a failure to open or configure the virtual interface.
type DeviceError struct {
	Op   string
	Name string
	Err  error
}

func NewDeviceError(op, name string, err error) *DeviceError {
	return &DeviceError{Op: op, Name: name, Err: err}
}

func (e *DeviceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("device error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("device error: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// TransportError reports a socket create/bind/listen/connect/accept failure.
type TransportError struct {
	Op      string
	Address string
	Err     error
}

func NewTransportError(op, address string, err error) *TransportError {
	return &TransportError{Op: op, Address: address, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.Address, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Direction tells which side of the forwarding loop failed.
type Direction string

const (
	DeviceRead   Direction = "device read"
	DeviceWrite  Direction = "device write"
	NetworkRead  Direction = "network read"
	NetworkWrite Direction = "network write"
	ReadyWait    Direction = "readiness wait"
)

// IOError is a fatal forwarding failure.
type IOError struct {
	Direction Direction
	Err       error
}

func NewIOError(direction Direction, err error) *IOError {
	return &IOError{Direction: direction, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error: %s: %v", e.Direction, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
