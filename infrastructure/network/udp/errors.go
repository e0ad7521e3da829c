package udp

import (
	"fmt"

	"powertun/application/network/connection"
)

var (
	// ErrPeerUnknown is returned by a server endpoint asked to send before any
	// datagram has arrived.
	ErrPeerUnknown = fmt.Errorf("peer address not learned yet: %w", connection.ErrFrameDropped)
	// ErrForeignSource is returned for a datagram that did not come from the session peer.
	ErrForeignSource = fmt.Errorf("datagram from foreign source: %w", connection.ErrFrameDropped)
)
