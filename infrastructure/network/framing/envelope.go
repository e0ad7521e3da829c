package framing

import (
	"encoding/binary"

	framelimit "powertun/domain/network/ip/frame_limit"
)

// PrefixSize is the length of the big-endian envelope length field.
const PrefixSize = 2

// Encode appends the envelope of frame (2-byte BE length, then frame) to dst.
func Encode(dst, frame []byte) ([]byte, error) {
	if err := framelimit.DefaultCap.ValidateLen(len(frame)); err != nil {
		return dst, err
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(frame)))
	return append(dst, frame...), nil
}
