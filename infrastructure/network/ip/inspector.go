package ip

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"powertun/application/network/forwarding"
	"powertun/domain/session"
)

const (
	ethernetHeaderLen = 14
	etherTypeIPv4     = 0x0800
	etherTypeIPv6     = 0x86DD
	etherTypeARP      = 0x0806
)

// Inspector summarises frames for debug logging. It never fails: frames it
// cannot parse are described as such.
type Inspector struct {
	kind session.DeviceKind
}

func NewInspector(kind session.DeviceKind) forwarding.FrameInspector {
	return &Inspector{kind: kind}
}

func (i *Inspector) Describe(frame []byte) string {
	if i.kind == session.TAP {
		return describeEthernet(frame)
	}
	return describePacket(frame)
}

func describePacket(packet []byte) string {
	version, err := VersionOf(packet)
	if err != nil {
		return fmt.Sprintf("%d bytes, %v", len(packet), err)
	}

	switch version {
	case V4:
		h, err := ipv4.ParseHeader(packet)
		if err != nil {
			return fmt.Sprintf("%d bytes, IPv4 header: %v", len(packet), err)
		}
		return fmt.Sprintf("IPv4 %s -> %s proto=%d len=%d ttl=%d", h.Src, h.Dst, h.Protocol, h.TotalLen, h.TTL)
	default:
		h, err := ipv6.ParseHeader(packet)
		if err != nil {
			return fmt.Sprintf("%d bytes, IPv6 header: %v", len(packet), err)
		}
		return fmt.Sprintf("IPv6 %s -> %s next=%d payload=%d hop=%d", h.Src, h.Dst, h.NextHeader, h.PayloadLen, h.HopLimit)
	}
}

func describeEthernet(frame []byte) string {
	if len(frame) < ethernetHeaderLen {
		return fmt.Sprintf("truncated ethernet frame (%d bytes)", len(frame))
	}
	dst := net.HardwareAddr(frame[0:6])
	src := net.HardwareAddr(frame[6:12])
	etherType := binary.BigEndian.Uint16(frame[12:14])

	head := fmt.Sprintf("ether %s -> %s", src, dst)
	switch etherType {
	case etherTypeIPv4, etherTypeIPv6:
		return head + " | " + describePacket(frame[ethernetHeaderLen:])
	case etherTypeARP:
		return head + " | ARP"
	default:
		return fmt.Sprintf("%s | ethertype=0x%04x len=%d", head, etherType, len(frame))
	}
}
