package udp

import (
	"fmt"
	"net"
	"net/netip"

	"powertun/application/logging"
)

// PacketConn is the subset of *net.UDPConn the endpoints use.
type PacketConn interface {
	ReadFromUDPAddrPort(b []byte) (int, netip.AddrPort, error)
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
	Close() error
}

var _ PacketConn = (*net.UDPConn)(nil)

// ServerEndpoint learns its peer from the first datagram it receives and
// sends every later datagram there. Datagrams from other sources are refused.
type ServerEndpoint struct {
	conn   PacketConn
	peer   netip.AddrPort
	known  bool
	logger logging.Logger
}

func NewServerEndpoint(conn PacketConn, logger logging.Logger) *ServerEndpoint {
	return &ServerEndpoint{conn: conn, logger: logger}
}

func (e *ServerEndpoint) Read(p []byte) (int, error) {
	n, from, err := e.conn.ReadFromUDPAddrPort(p)
	if err != nil {
		return 0, err
	}
	from = canonical(from)
	if !e.known {
		e.peer = from
		e.known = true
		e.logger.Printf("peer learned from first datagram: %s", from)
		return n, nil
	}
	if from != e.peer {
		return 0, fmt.Errorf("%w: %s", ErrForeignSource, from)
	}
	return n, nil
}

func (e *ServerEndpoint) Write(p []byte) (int, error) {
	if !e.known {
		return 0, ErrPeerUnknown
	}
	return e.conn.WriteToUDPAddrPort(p, e.peer)
}

// Peer reports the learned peer, if any.
func (e *ServerEndpoint) Peer() (netip.AddrPort, bool) {
	return e.peer, e.known
}

func (e *ServerEndpoint) Close() error {
	return e.conn.Close()
}

// ClientEndpoint exchanges datagrams with one fixed peer over an unconnected
// socket, so an ICMP port-unreachable from an absent server is not fatal.
type ClientEndpoint struct {
	conn PacketConn
	peer netip.AddrPort
}

func NewClientEndpoint(conn PacketConn, peer netip.AddrPort) *ClientEndpoint {
	return &ClientEndpoint{conn: conn, peer: canonical(peer)}
}

func (e *ClientEndpoint) Read(p []byte) (int, error) {
	n, from, err := e.conn.ReadFromUDPAddrPort(p)
	if err != nil {
		return 0, err
	}
	if from = canonical(from); from != e.peer {
		return 0, fmt.Errorf("%w: %s", ErrForeignSource, from)
	}
	return n, nil
}

func (e *ClientEndpoint) Write(p []byte) (int, error) {
	return e.conn.WriteToUDPAddrPort(p, e.peer)
}

func (e *ClientEndpoint) Close() error {
	return e.conn.Close()
}

// canonical strips the IPv4-in-IPv6 mapping dual-stack sockets report.
func canonical(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
