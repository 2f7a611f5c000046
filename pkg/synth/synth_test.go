package synth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padprobe/padprobe/pkg/synth"
	"github.com/padprobe/padprobe/pkg/wire"
)

func TestStateSeqZero(t *testing.T) {
	assert.Equal(t, wire.GamepadState{
		DeviceID: 0,
		Flags:    synth.FlagSynthetic,
		Buttons:  0x0001,
		LX:       0,
		LY:       6000,
		RX:       -12000,
		RY:       -6000,
		L2:       0,
		R2:       0,
		DpadX:    -1,
		DpadY:    0,
	}, synth.State(0))
}

func TestStateDeterministic(t *testing.T) {
	for _, seq := range []uint32{0, 1, 59, 1000, 123456, 4294967295} {
		assert.Equal(t, synth.State(seq), synth.State(seq), "seq %d", seq)
	}
}

func TestSticksStayWithinAmplitude(t *testing.T) {
	for seq := uint32(0); seq < 1000; seq++ {
		st := synth.State(seq)
		for name, v := range map[string]int16{"lx": st.LX, "ly": st.LY, "rx": st.RX, "ry": st.RY} {
			require.GreaterOrEqual(t, v, int16(-12000), "%s at seq %d", name, seq)
			require.LessOrEqual(t, v, int16(12000), "%s at seq %d", name, seq)
		}
	}
}

func TestLXTriangleShape(t *testing.T) {
	// Rising half: linear ramp from 0 toward the peak.
	assert.Equal(t, int16(0), synth.State(0).LX)
	assert.Equal(t, int16(120), synth.State(1).LX)
	assert.Equal(t, int16(11880), synth.State(99).LX)
	// Falling half mirrors the rising half with opposite sign.
	assert.Equal(t, int16(-12000), synth.State(100).LX)
	for k := uint32(1); k < 100; k++ {
		assert.Equal(t, synth.State(100-k).LX, -synth.State(100+k).LX, "k=%d", k)
	}
	// One full period later the wave repeats.
	for _, seq := range []uint32{0, 37, 99, 100, 150, 199} {
		a, b := synth.State(seq), synth.State(seq+200)
		assert.Equal(t, a.LX, b.LX, "seq %d", seq)
		assert.Equal(t, a.LY, b.LY, "seq %d", seq)
		assert.Equal(t, a.RX, b.RX, "seq %d", seq)
		assert.Equal(t, a.RY, b.RY, "seq %d", seq)
	}
}

func TestStickPhaseOffsets(t *testing.T) {
	for _, seq := range []uint32{0, 25, 80, 199, 1234} {
		st := synth.State(seq)
		assert.Equal(t, synth.State(seq+50).LX, st.LY, "seq %d", seq)
		assert.Equal(t, synth.State(seq+100).LX, st.RX, "seq %d", seq)
		assert.Equal(t, synth.State(seq+150).LX, st.RY, "seq %d", seq)
	}
}

func TestButtonsToggleEveryThirtyFrames(t *testing.T) {
	assert.Equal(t, uint16(0x0001), synth.State(0).Buttons)
	assert.Equal(t, uint16(0x0001), synth.State(29).Buttons)
	assert.Equal(t, uint16(0x0002), synth.State(30).Buttons)
	assert.Equal(t, uint16(0x0002), synth.State(59).Buttons)
	assert.Equal(t, uint16(0x0001), synth.State(60).Buttons)
}

func TestTriggersRampAndWrap(t *testing.T) {
	assert.Equal(t, uint16(8), synth.State(1).L2)
	assert.Equal(t, uint16(5), synth.State(1).R2)
	assert.Equal(t, uint16(1016), synth.State(127).L2)
	assert.Equal(t, uint16(0), synth.State(128).L2)
	assert.Equal(t, uint16(1), synth.State(205).R2)
}

func TestDpadCycles(t *testing.T) {
	assert.Equal(t, int16(-1), synth.State(0).DpadX)
	assert.Equal(t, int16(-1), synth.State(59).DpadX)
	assert.Equal(t, int16(1), synth.State(60).DpadX)
	assert.Equal(t, int16(1), synth.State(119).DpadX)
	assert.Equal(t, int16(0), synth.State(120).DpadX)
	assert.Equal(t, int16(0), synth.State(179).DpadX)
	assert.Equal(t, int16(-1), synth.State(180).DpadX)
	for _, seq := range []uint32{0, 60, 120, 99999} {
		assert.Equal(t, int16(0), synth.State(seq).DpadY, "seq %d", seq)
	}
}

func TestStateAtMaxSeq(t *testing.T) {
	st := synth.State(4294967295)
	assert.Equal(t, int16(11400), st.LX)
	assert.Equal(t, uint16(1016), st.L2)
	assert.Equal(t, uint16(1019), st.R2)
	assert.Equal(t, uint16(0x0001), st.Buttons)
	assert.Equal(t, int16(1), st.DpadX)
}
