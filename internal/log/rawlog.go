package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// Direction tags a raw frame record with the side of the wire it crossed.
type Direction string

const (
	DirSend Direction = "send"
	DirRecv Direction = "recv"
)

// RawLogger records raw frame bytes for offline protocol debugging. A frame
// may arrive in parts (header and payload); they are dumped as one record.
type RawLogger interface {
	Frame(dir Direction, peer string, parts ...[]byte)
}

// NewRaw returns a RawLogger writing hex dumps to w. A nil writer yields a
// no-op logger, so call sites never need a nil check.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawWriter{w: w}
}

type nopRaw struct{}

func (nopRaw) Frame(Direction, string, ...[]byte) {}

type rawWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *rawWriter) Frame(dir Direction, peer string, parts ...[]byte) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	frame := make([]byte, 0, total)
	for _, p := range parts {
		frame = append(frame, p...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s %s %d bytes\n", time.Now().Format("2006-01-02T15:04:05.000000Z07:00"), dir, peer, total)
	_, _ = io.WriteString(r.w, hex.Dump(frame))
}
