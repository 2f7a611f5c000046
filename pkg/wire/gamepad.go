package wire

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

// GamepadStateSize is the size of an encoded GamepadState in bytes.
const GamepadStateSize = 20

// GamepadState is the payload carried by every frame: one controller snapshot.
// Total size: 20 bytes (fixed).
// Layout:
//
//	DeviceID: 1 byte
//	Flags: 1 byte
//	Buttons: 2 bytes (LE uint16 bitfield)
//	LX: 2 bytes (LE int16)
//	LY: 2 bytes (LE int16)
//	RX: 2 bytes (LE int16)
//	RY: 2 bytes (LE int16)
//	L2: 2 bytes (LE uint16)
//	R2: 2 bytes (LE uint16)
//	DpadX: 2 bytes (LE int16)
//	DpadY: 2 bytes (LE int16)
type GamepadState struct {
	DeviceID uint8
	Flags    uint8
	Buttons  uint16
	LX, LY   int16
	RX, RY   int16
	L2, R2   uint16
	DpadX    int16
	DpadY    int16
}

// MarshalBinary encodes the state to 20 bytes.
func (g *GamepadState) MarshalBinary() ([]byte, error) {
	b := make([]byte, GamepadStateSize)
	b[0] = g.DeviceID
	b[1] = g.Flags
	binary.LittleEndian.PutUint16(b[2:4], g.Buttons)
	binary.LittleEndian.PutUint16(b[4:6], uint16(g.LX))
	binary.LittleEndian.PutUint16(b[6:8], uint16(g.LY))
	binary.LittleEndian.PutUint16(b[8:10], uint16(g.RX))
	binary.LittleEndian.PutUint16(b[10:12], uint16(g.RY))
	binary.LittleEndian.PutUint16(b[12:14], g.L2)
	binary.LittleEndian.PutUint16(b[14:16], g.R2)
	binary.LittleEndian.PutUint16(b[16:18], uint16(g.DpadX))
	binary.LittleEndian.PutUint16(b[18:20], uint16(g.DpadY))
	return b, nil
}

// UnmarshalBinary decodes the first 20 bytes of data into the state.
// Trailing bytes are ignored so that senders may pad their payloads.
func (g *GamepadState) UnmarshalBinary(data []byte) error {
	if len(data) < GamepadStateSize {
		return fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedPayload, len(data), GamepadStateSize)
	}
	g.DeviceID = data[0]
	g.Flags = data[1]
	g.Buttons = binary.LittleEndian.Uint16(data[2:4])
	g.LX = int16(binary.LittleEndian.Uint16(data[4:6]))
	g.LY = int16(binary.LittleEndian.Uint16(data[6:8]))
	g.RX = int16(binary.LittleEndian.Uint16(data[8:10]))
	g.RY = int16(binary.LittleEndian.Uint16(data[10:12]))
	g.L2 = binary.LittleEndian.Uint16(data[12:14])
	g.R2 = binary.LittleEndian.Uint16(data[14:16])
	g.DpadX = int16(binary.LittleEndian.Uint16(data[16:18]))
	g.DpadY = int16(binary.LittleEndian.Uint16(data[18:20]))
	return nil
}

// LogValue renders the state as structured attrs with hex bitfields, so debug
// logs stay readable at high frame rates.
func (g GamepadState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("dev", int(g.DeviceID)),
		slog.String("flags", fmt.Sprintf("%#02x", g.Flags)),
		slog.String("buttons", fmt.Sprintf("%#04x", g.Buttons)),
		slog.Int("lx", int(g.LX)),
		slog.Int("ly", int(g.LY)),
		slog.Int("rx", int(g.RX)),
		slog.Int("ry", int(g.RY)),
		slog.Int("l2", int(g.L2)),
		slog.Int("r2", int(g.R2)),
		slog.Int("dpad_x", int(g.DpadX)),
		slog.Int("dpad_y", int(g.DpadY)),
	)
}
