package engine

import (
	"time"

	"github.com/padprobe/padprobe/pkg/synth"
	"github.com/padprobe/padprobe/pkg/wire"
)

// buildFrame produces the wire bytes for one generated frame: an envelope
// followed by the gamepad state for seq, optionally padded with pad zero
// bytes so sources can exercise how peers handle payloads longer than a bare
// state.
func buildFrame(seq uint32, msgType, version uint8, pad int) ([]byte, error) {
	st := synth.State(seq)
	payload, err := st.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if pad > 0 {
		payload = append(payload, make([]byte, pad)...)
	}
	env := wire.Envelope{
		MsgType:   msgType,
		Version:   version,
		Length:    uint16(len(payload)),
		Seq:       seq,
		Timestamp: uint64(time.Now().UnixMicro()),
	}
	hdr, err := env.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(hdr, payload...), nil
}
