// Package synth generates deterministic gamepad states from sequence numbers.
// The same seq always yields the same state, so a receiver that knows the
// generator can verify a stream bit-for-bit and a human watching logs can see
// plausible motion instead of noise.
package synth

import "github.com/padprobe/padprobe/pkg/wire"

// FlagSynthetic marks generated frames so sinks can tell them apart from
// captures of real hardware.
const FlagSynthetic = 0x01

const (
	stickPeriod  = 200   // frames per triangle cycle
	stickAmp     = 12000 // peak stick deflection
	phaseLY      = 50
	phaseRX      = 100
	phaseRY      = 150
	triggerRange = 1024
	l2Step       = 8
	r2Step       = 5
	buttonPeriod = 30 // frames before the button pattern flips
	dpadPeriod   = 60 // frames per dpad step

	buttonsEven = 0x0001
	buttonsOdd  = 0x0002
)

// State derives the gamepad snapshot for a sequence number. Sticks trace
// phase-shifted triangle waves, triggers ramp and wrap, buttons toggle between
// two patterns, and the dpad cycles left, right, neutral.
func State(seq uint32) wire.GamepadState {
	n := int64(seq)
	return wire.GamepadState{
		DeviceID: 0,
		Flags:    FlagSynthetic,
		Buttons:  buttons(n),
		LX:       tri(n),
		LY:       tri(n + phaseLY),
		RX:       tri(n + phaseRX),
		RY:       tri(n + phaseRY),
		L2:       uint16(n * l2Step % triggerRange),
		R2:       uint16(n * r2Step % triggerRange),
		DpadX:    dpadX(n),
		DpadY:    0,
	}
}

// tri evaluates a triangle wave of period stickPeriod and amplitude stickAmp:
// a ramp from 0 toward +amp over the first half cycle, then a mirrored ramp
// from -amp back toward 0 over the second half.
func tri(n int64) int16 {
	t := n % stickPeriod
	const half = stickPeriod / 2
	if t < half {
		return int16(t * stickAmp / half)
	}
	return int16(-((stickPeriod - t) * stickAmp / half))
}

func buttons(n int64) uint16 {
	if n/buttonPeriod%2 == 0 {
		return buttonsEven
	}
	return buttonsOdd
}

func dpadX(n int64) int16 {
	switch n / dpadPeriod % 3 {
	case 0:
		return -1
	case 1:
		return 1
	default:
		return 0
	}
}
