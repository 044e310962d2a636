// ABOUTME: Shared helpers for demo driver tests
// ABOUTME: Splits httptest addresses into host and port
package demo

import (
	"net"
	"strconv"
	"testing"
)

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("bad address %s: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port %s: %v", portStr, err)
	}
	return host, port
}
