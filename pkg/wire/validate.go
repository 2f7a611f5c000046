package wire

import "fmt"

// MaxFrameLen is the largest payload length a receiver accepts. Anything
// larger is treated as stream desynchronization rather than a big frame.
const MaxFrameLen = 4096

// CheckLength validates a declared payload length against receiver policy.
// A zero or oversized length returns ErrInvalidLength.
func CheckLength(length uint16) error {
	if length == 0 || length > MaxFrameLen {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	return nil
}

// SplitDatagram parses one datagram into its envelope and payload slice.
// The payload aliases b; callers must copy it if they keep it past the next
// read. Errors are classified with the package sentinels: a short buffer is
// ErrMalformedHeader, a bad declared length is ErrInvalidLength, and a
// datagram carrying fewer payload bytes than declared is ErrTruncatedPayload.
// Trailing bytes beyond the declared length are ignored.
func SplitDatagram(b []byte) (Envelope, []byte, error) {
	var env Envelope
	if len(b) < EnvelopeSize {
		return env, nil, fmt.Errorf("%w: %d bytes, want %d", ErrMalformedHeader, len(b), EnvelopeSize)
	}
	if err := env.UnmarshalBinary(b[:EnvelopeSize]); err != nil {
		return env, nil, err
	}
	if err := CheckLength(env.Length); err != nil {
		return env, nil, err
	}
	rest := b[EnvelopeSize:]
	if len(rest) < int(env.Length) {
		return env, nil, fmt.Errorf("%w: %d payload bytes, envelope declares %d", ErrTruncatedPayload, len(rest), env.Length)
	}
	return env, rest[:env.Length], nil
}
