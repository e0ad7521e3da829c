package ip

import "fmt"

type Version byte

const (
	Unknown Version = 0
	V4      Version = 4
	V6      Version = 6
)

// VersionOf reads the version nibble of an IP packet.
func VersionOf(packet []byte) (Version, error) {
	if len(packet) == 0 {
		return Unknown, fmt.Errorf("invalid packet: empty")
	}
	switch v := packet[0] >> 4; v {
	case 4:
		return V4, nil
	case 6:
		return V6, nil
	default:
		return Unknown, fmt.Errorf("invalid IP version: %d", v)
	}
}

func (v Version) String() string {
	switch v {
	case V4:
		return "IPv4"
	case V6:
		return "IPv6"
	default:
		return "unknown"
	}
}
