// Package testing holds shared helpers for padprobe tests: loopback port
// reservation, patient dialing, and wire frame construction.
package testing

import (
	"net"
	"testing"
	"time"
)

// FreeAddr reserves a TCP port on loopback and returns it as host:port. The
// probe listener is closed before returning so the caller can bind it.
func FreeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

// FreeUDPAddr reserves a UDP port on loopback and returns it as host:port.
func FreeUDPAddr(t *testing.T) string {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := conn.LocalAddr().String()
	_ = conn.Close()
	return addr
}

// DialWait dials addr until the peer accepts or two seconds pass. Engines
// bind asynchronously, so tests use this instead of sleeping.
func DialWait(t *testing.T, network, addr string) net.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		c, err := net.DialTimeout(network, addr, 200*time.Millisecond)
		if err == nil {
			return c
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial %s %s: %v", network, addr, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
