package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Protocol is the transport carrying envelopes between the two peers.
type Protocol int

const (
	UNKNOWN Protocol = iota
	// TCP carries envelopes back to back on one stream.
	TCP
	// UDP carries exactly one envelope per datagram.
	UDP
)

func (p Protocol) MarshalJSON() ([]byte, error) {
	switch p {
	case TCP:
		return json.Marshal("TCP")
	case UDP:
		return json.Marshal("UDP")
	default:
		return nil, fmt.Errorf("unsupported protocol: %v", int(p))
	}
}

func (p *Protocol) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseProtocol(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TCP":
		return TCP, nil
	case "UDP":
		return UDP, nil
	default:
		return UNKNOWN, fmt.Errorf("unsupported protocol: %q", s)
	}
}

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	default:
		return "UNKNOWN"
	}
}
