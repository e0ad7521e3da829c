package framing

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"pgregory.net/rapid"

	"powertun/application/network/connection"
	framelimit "powertun/domain/network/ip/frame_limit"
)

// datagramMock hands out one queued datagram per Read and records each Write
// as one datagram.
type datagramMock struct {
	inbound  [][]byte
	readErr  error
	sent     [][]byte
	shortBy  int
	writeErr error
	closed   bool
}

func (m *datagramMock) Read(p []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if len(m.inbound) == 0 {
		return 0, io.EOF
	}
	d := m.inbound[0]
	m.inbound = m.inbound[1:]
	return copy(p, d), nil
}

func (m *datagramMock) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.sent = append(m.sent, append([]byte(nil), p...))
	return len(p) - m.shortBy, nil
}

func (m *datagramMock) Close() error {
	m.closed = true
	return nil
}

func TestDatagram_WriteSendsOneDatagramPerFrame(t *testing.T) {
	m := &datagramMock{}
	a := NewDatagramFramingAdapter(m)

	frames := [][]byte{bytes.Repeat([]byte{1}, 64), {}, bytes.Repeat([]byte{2}, 2000)}
	for _, f := range frames {
		n, err := a.Write(f)
		if err != nil || n != len(f) {
			t.Fatalf("Write(%d bytes) = %d, %v", len(f), n, err)
		}
	}
	if len(m.sent) != len(frames) {
		t.Fatalf("expected %d datagrams, got %d", len(frames), len(m.sent))
	}
	for i, f := range frames {
		if !bytes.Equal(m.sent[i], envelopeOf(t, f)) {
			t.Fatalf("datagram %d is not the envelope of frame %d", i, i)
		}
	}
}

func TestDatagram_WriteErrors(t *testing.T) {
	if _, err := NewDatagramFramingAdapter(&datagramMock{}).Write(make([]byte, 2001)); !errors.Is(err, framelimit.ErrCapExceeded) {
		t.Fatalf("expected ErrCapExceeded, got %v", err)
	}
	if _, err := NewDatagramFramingAdapter(&datagramMock{shortBy: 1}).Write([]byte{1, 2}); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected io.ErrShortWrite, got %v", err)
	}
	dropped := &datagramMock{writeErr: connection.ErrFrameDropped}
	if _, err := NewDatagramFramingAdapter(dropped).Write([]byte{1}); !errors.Is(err, connection.ErrFrameDropped) {
		t.Fatalf("expected endpoint error to pass through, got %v", err)
	}
}

func TestDatagram_Read(t *testing.T) {
	frame := bytes.Repeat([]byte{0xEE}, 64)
	m := &datagramMock{inbound: [][]byte{envelopeOf(t, frame), {0, 0}}}
	a := NewDatagramFramingAdapter(m)

	buf := make([]byte, framelimit.MaxFrameSize)
	n, err := a.Read(buf)
	if err != nil || !bytes.Equal(buf[:n], frame) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	n, err = a.Read(buf)
	if err != nil || n != 0 {
		t.Fatalf("empty envelope = %d, %v", n, err)
	}
}

func TestDatagram_ReadMalformed(t *testing.T) {
	oversized := append([]byte{0x07, 0xD1}, make([]byte, 2001)...)
	tests := []struct {
		name     string
		datagram []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0x00}},
		{"prefix larger than payload", []byte{0x00, 0x05, 1, 2}},
		{"prefix smaller than payload", []byte{0x00, 0x01, 1, 2}},
		{"split envelope prefix only", []byte{0x00, 0x40}},
		{"over the frame cap", oversized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewDatagramFramingAdapter(&datagramMock{inbound: [][]byte{tt.datagram}})
			_, err := a.Read(make([]byte, framelimit.MaxFrameSize))
			if !errors.Is(err, ErrMalformedDatagram) {
				t.Fatalf("expected ErrMalformedDatagram, got %v", err)
			}
			if !errors.Is(err, connection.ErrFrameDropped) {
				t.Fatalf("malformed datagrams must be droppable, got %v", err)
			}
		})
	}
}

func TestDatagram_ReadShortBufferAndErrors(t *testing.T) {
	a := NewDatagramFramingAdapter(&datagramMock{inbound: [][]byte{envelopeOf(t, []byte{1, 2, 3})}})
	if _, err := a.Read(make([]byte, 2)); !errors.Is(err, io.ErrShortBuffer) {
		t.Fatalf("expected io.ErrShortBuffer, got %v", err)
	}

	boom := errors.New("socket closed")
	if _, err := NewDatagramFramingAdapter(&datagramMock{readErr: boom}).Read(make([]byte, 8)); !errors.Is(err, boom) {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestDatagram_Close(t *testing.T) {
	m := &datagramMock{}
	if err := NewDatagramFramingAdapter(m).Close(); err != nil || !m.closed {
		t.Fatalf("Close did not reach the endpoint: %v", err)
	}
}

func TestDatagram_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frame := rapid.SliceOfN(rapid.Byte(), 0, framelimit.MaxFrameSize).Draw(t, "frame")

		m := &datagramMock{}
		if _, err := NewDatagramFramingAdapter(m).Write(frame); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if len(m.sent) != 1 {
			t.Fatalf("expected one datagram, got %d", len(m.sent))
		}

		reader := NewDatagramFramingAdapter(&datagramMock{inbound: m.sent})
		buf := make([]byte, framelimit.MaxFrameSize)
		n, err := reader.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(buf[:n], frame) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", n, len(frame))
		}
	})
}

func FuzzDatagramRead(f *testing.F) {
	f.Add([]byte{0x00, 0x00})
	f.Add([]byte{0x00, 0x01, 0xFF})
	f.Add([]byte{0x00})

	f.Fuzz(func(t *testing.T, datagram []byte) {
		a := NewDatagramFramingAdapter(&datagramMock{inbound: [][]byte{datagram}})
		buf := make([]byte, framelimit.MaxFrameSize)
		n, err := a.Read(buf)
		if err != nil {
			return
		}
		if len(datagram) > PrefixSize+framelimit.MaxFrameSize+1 {
			// the adapter reads at most one spare byte; longer datagrams are cut by the socket
			return
		}
		if PrefixSize+n != len(datagram) || !bytes.Equal(buf[:n], datagram[PrefixSize:]) {
			t.Fatalf("accepted datagram %x as %d-byte frame", datagram, n)
		}
	})
}
