package testing

import (
	"testing"
	"time"

	"github.com/padprobe/padprobe/pkg/synth"
	"github.com/padprobe/padprobe/pkg/wire"
)

// FrameBytes builds one wire frame: an envelope declaring len(payload) bytes
// followed by the payload itself.
func FrameBytes(t *testing.T, seq uint32, payload []byte) []byte {
	t.Helper()
	env := wire.Envelope{
		MsgType:   1,
		Version:   1,
		Length:    uint16(len(payload)),
		Seq:       seq,
		Timestamp: uint64(time.Now().UnixMicro()),
	}
	hdr, err := env.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return append(hdr, payload...)
}

// StateFrame builds a frame carrying the generated state for seq, the exact
// bytes a source engine would emit for that sequence number.
func StateFrame(t *testing.T, seq uint32) []byte {
	t.Helper()
	st := synth.State(seq)
	payload, err := st.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return FrameBytes(t, seq, payload)
}
