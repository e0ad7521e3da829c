package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	framelimit "powertun/domain/network/ip/frame_limit"
)

// LengthPrefixFramingAdapter carries envelopes back to back over a byte
// stream. Partial reads and writes of the underlying stream are looped over.
type LengthPrefixFramingAdapter struct {
	stream io.ReadWriteCloser
	limit  framelimit.Cap
	header [PrefixSize]byte
}

func NewLengthPrefixFramingAdapter(stream io.ReadWriteCloser) *LengthPrefixFramingAdapter {
	return &LengthPrefixFramingAdapter{
		stream: stream,
		limit:  framelimit.DefaultCap,
	}
}

// Write sends frame as one envelope and returns len(frame).
func (a *LengthPrefixFramingAdapter) Write(frame []byte) (int, error) {
	if err := a.limit.ValidateLen(len(frame)); err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}

	var prefix [PrefixSize]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(frame)))
	if err := a.writeFull(prefix[:]); err != nil {
		return 0, fmt.Errorf("write length prefix: %w", err)
	}
	if err := a.writeFull(frame); err != nil {
		return 0, fmt.Errorf("write payload: %w", err)
	}
	return len(frame), nil
}

func (a *LengthPrefixFramingAdapter) writeFull(p []byte) error {
	for len(p) > 0 {
		n, err := a.stream.Write(p)
		if n > 0 {
			p = p[n:]
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// Read decodes one envelope into buffer and returns the payload size.
// It returns a bare io.EOF only when the stream ends exactly at an envelope
// boundary; a stream ending anywhere else yields ErrTruncatedEnvelope.
func (a *LengthPrefixFramingAdapter) Read(buffer []byte) (int, error) {
	if err := a.receiveExact(a.header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("read length prefix: %w", err)
	}
	length := int(binary.BigEndian.Uint16(a.header[:]))

	if err := a.limit.ValidateLen(length); err != nil {
		return 0, fmt.Errorf("decode envelope: %w", err)
	}
	if length > len(buffer) {
		// keep the stream aligned on the next envelope
		if err := a.discard(length); err != nil {
			return 0, err
		}
		return 0, io.ErrShortBuffer
	}

	if err := a.receiveExact(buffer[:length]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: stream ended before %d-byte payload: %w", ErrTruncatedEnvelope, length, io.ErrUnexpectedEOF)
		}
		return 0, fmt.Errorf("read payload: %w", err)
	}
	return length, nil
}

// receiveExact fills p completely. io.EOF means nothing was read;
// a partial fill that hits end of stream is reported as truncation.
func (a *LengthPrefixFramingAdapter) receiveExact(p []byte) error {
	_, err := io.ReadFull(a.stream, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: stream ended after a partial read: %w", ErrTruncatedEnvelope, io.ErrUnexpectedEOF)
	}
	return err
}

func (a *LengthPrefixFramingAdapter) discard(n int) error {
	if _, err := io.CopyN(io.Discard, a.stream, int64(n)); err != nil {
		return fmt.Errorf("discard %d-byte payload: %w", n, err)
	}
	return nil
}

func (a *LengthPrefixFramingAdapter) Close() error {
	return a.stream.Close()
}
