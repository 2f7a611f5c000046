package wire

import "errors"

// Sentinel errors returned by frame decoding. Callers classify failures with
// errors.Is and decide whether the transport stream can continue.
var (
	// ErrMalformedHeader is returned when a buffer is too short to contain a
	// full envelope header.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedPayload is returned when a payload buffer is too short to
	// contain a full gamepad state.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrInvalidLength is returned when an envelope declares a payload length
	// that no well-formed peer would produce. On TCP the stream is considered
	// desynchronized and must be closed.
	ErrInvalidLength = errors.New("invalid payload length")

	// ErrTruncatedPayload is returned when a datagram carries fewer payload
	// bytes than its envelope declares.
	ErrTruncatedPayload = errors.New("truncated payload")
)
