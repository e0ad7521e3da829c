package mode

import (
	"encoding/json"
	"strings"
)

// Mode is the role a powertun process plays in a session.
type Mode int

const (
	Unknown Mode = iota
	// Client connects (or sends) to a configured peer address.
	Client
	// Server binds a port and serves exactly one peer.
	Server
)

// Parse accepts "client"/"c" and "server"/"s", case-insensitively.
func Parse(s string) (Mode, error) {
	value := strings.TrimSpace(strings.ToLower(s))
	switch value {
	case "":
		return Unknown, NewNoModeProvided()
	case "c", "client":
		return Client, nil
	case "s", "server":
		return Server, nil
	default:
		return Unknown, NewInvalidModeProvided(value)
	}
}

func (m Mode) String() string {
	switch m {
	case Client:
		return "client"
	case Server:
		return "server"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	if m != Client && m != Server {
		return nil, NewInvalidModeProvided(m.String())
	}
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
