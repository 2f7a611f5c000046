package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawNilWriterIsNoop(t *testing.T) {
	r := NewRaw(nil)
	r.Frame(DirSend, "127.0.0.1:1", []byte{0x01})
}

func TestRawFrameDumpsHex(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)

	r.Frame(DirRecv, "127.0.0.1:26543", []byte{0x01, 0x02}, []byte{0xab})

	out := buf.String()
	assert.Contains(t, out, "recv")
	assert.Contains(t, out, "127.0.0.1:26543")
	assert.Contains(t, out, "3 bytes")
	assert.Contains(t, out, "01 02 ab")
}
