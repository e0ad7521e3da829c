package framing

import (
	"encoding/binary"
	"fmt"
	"io"

	framelimit "powertun/domain/network/ip/frame_limit"
)

// DatagramFramingAdapter carries exactly one envelope per datagram. The
// underlying endpoint must return one whole datagram per Read.
type DatagramFramingAdapter struct {
	endpoint io.ReadWriteCloser
	limit    framelimit.Cap
	out      []byte
	in       []byte
}

func NewDatagramFramingAdapter(endpoint io.ReadWriteCloser) *DatagramFramingAdapter {
	return &DatagramFramingAdapter{
		endpoint: endpoint,
		limit:    framelimit.DefaultCap,
		out:      make([]byte, 0, PrefixSize+framelimit.MaxFrameSize),
		// one spare byte exposes datagrams longer than the largest envelope
		in: make([]byte, PrefixSize+framelimit.MaxFrameSize+1),
	}
}

func (a *DatagramFramingAdapter) Write(frame []byte) (int, error) {
	envelope, err := Encode(a.out[:0], frame)
	if err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}
	n, err := a.endpoint.Write(envelope)
	if err != nil {
		return 0, err
	}
	if n != len(envelope) {
		return 0, io.ErrShortWrite
	}
	return len(frame), nil
}

func (a *DatagramFramingAdapter) Read(buffer []byte) (int, error) {
	n, err := a.endpoint.Read(a.in)
	if err != nil {
		return 0, err
	}
	if n < PrefixSize {
		return 0, fmt.Errorf("%w: %d-byte datagram has no length prefix", ErrMalformedDatagram, n)
	}
	length := int(binary.BigEndian.Uint16(a.in[:PrefixSize]))
	if length != n-PrefixSize {
		return 0, fmt.Errorf("%w: prefix declares %d bytes, datagram carries %d", ErrMalformedDatagram, length, n-PrefixSize)
	}
	if err := a.limit.ValidateLen(length); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedDatagram, err)
	}
	if length > len(buffer) {
		return 0, io.ErrShortBuffer
	}
	return copy(buffer, a.in[PrefixSize:n]), nil
}

func (a *DatagramFramingAdapter) Close() error {
	return a.endpoint.Close()
}
