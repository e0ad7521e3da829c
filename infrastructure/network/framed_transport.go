package network

import (
	"io"

	"powertun/application/network/connection"
	"powertun/domain/session"
)

// FramedTransport binds a framing codec to the socket it runs on.
type FramedTransport struct {
	codec    io.ReadWriteCloser
	fd       int
	protocol session.Protocol
}

func NewFramedTransport(codec io.ReadWriteCloser, fd int, protocol session.Protocol) connection.Transport {
	return &FramedTransport{
		codec:    codec,
		fd:       fd,
		protocol: protocol,
	}
}

func (t *FramedTransport) Read(frame []byte) (int, error) {
	return t.codec.Read(frame)
}

func (t *FramedTransport) Write(frame []byte) (int, error) {
	return t.codec.Write(frame)
}

func (t *FramedTransport) Close() error {
	return t.codec.Close()
}

func (t *FramedTransport) Fd() int {
	return t.fd
}

func (t *FramedTransport) Protocol() session.Protocol {
	return t.protocol
}
