package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceKind selects the layer the virtual interface works at.
type DeviceKind int

const (
	UnknownDevice DeviceKind = iota
	// TUN exchanges raw IP packets (L3).
	TUN
	// TAP exchanges raw Ethernet frames (L2).
	TAP
)

func ParseDeviceKind(s string) (DeviceKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TUN":
		return TUN, nil
	case "TAP":
		return TAP, nil
	default:
		return UnknownDevice, fmt.Errorf("unsupported device kind: %q", s)
	}
}

func (k DeviceKind) String() string {
	switch k {
	case TUN:
		return "TUN"
	case TAP:
		return "TAP"
	default:
		return "UNKNOWN"
	}
}

func (k DeviceKind) MarshalJSON() ([]byte, error) {
	if k != TUN && k != TAP {
		return nil, fmt.Errorf("unsupported device kind: %v", int(k))
	}
	return json.Marshal(k.String())
}

func (k *DeviceKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDeviceKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DeviceBackend names the implementation used to allocate the interface.
type DeviceBackend string

const (
	// KernelBackend issues TUNSETIFF directly.
	KernelBackend DeviceBackend = "kernel"
	// WaterBackend delegates allocation to songgao/water.
	WaterBackend DeviceBackend = "water"
)

func ParseDeviceBackend(s string) (DeviceBackend, error) {
	switch DeviceBackend(strings.ToLower(strings.TrimSpace(s))) {
	case KernelBackend:
		return KernelBackend, nil
	case WaterBackend:
		return WaterBackend, nil
	default:
		return "", fmt.Errorf("unsupported device backend: %q", s)
	}
}
