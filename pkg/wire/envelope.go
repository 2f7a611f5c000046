// Package wire implements the fixed little-endian frame format spoken by
// padprobe peers: a 16-byte envelope followed by a gamepad state payload.
package wire

import (
	"encoding/binary"
	"fmt"
)

// EnvelopeSize is the fixed size of the frame header in bytes.
const EnvelopeSize = 16

// Envelope is the frame header preceding every payload on both transports.
// Total size: 16 bytes (fixed).
// Layout:
//
//	MsgType: 1 byte
//	Version: 1 byte
//	Length: 2 bytes (LE uint16, payload bytes following the header)
//	Seq: 4 bytes (LE uint32)
//	Timestamp: 8 bytes (LE uint64, sender clock in microseconds)
type Envelope struct {
	MsgType   uint8
	Version   uint8
	Length    uint16
	Seq       uint32
	Timestamp uint64
}

// MarshalBinary encodes the envelope to 16 bytes.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	b := make([]byte, EnvelopeSize)
	b[0] = e.MsgType
	b[1] = e.Version
	binary.LittleEndian.PutUint16(b[2:4], e.Length)
	binary.LittleEndian.PutUint32(b[4:8], e.Seq)
	binary.LittleEndian.PutUint64(b[8:16], e.Timestamp)
	return b, nil
}

// UnmarshalBinary decodes exactly 16 bytes into the envelope.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) != EnvelopeSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrMalformedHeader, len(data), EnvelopeSize)
	}
	e.MsgType = data[0]
	e.Version = data[1]
	e.Length = binary.LittleEndian.Uint16(data[2:4])
	e.Seq = binary.LittleEndian.Uint32(data[4:8])
	e.Timestamp = binary.LittleEndian.Uint64(data[8:16])
	return nil
}
