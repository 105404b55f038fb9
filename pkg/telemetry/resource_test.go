package telemetry

import (
	"net"
	"testing"
)

func TestGetHostIP(t *testing.T) {
	ip := getHostIP()
	if ip == "" {
		t.Skip("Could not get host IP, skipping test")
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		t.Fatalf("Expected valid IP address, got '%s'", ip)
	}
	if parsed.IsLoopback() {
		t.Errorf("Expected non-loopback IP, got '%s'", ip)
	}
}

func TestGetFirstNonLoopbackIP(t *testing.T) {
	ip := getFirstNonLoopbackIP()
	if ip == "" {
		t.Skip("No non-loopback IP found, skipping test")
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		t.Fatalf("Expected valid IP address, got '%s'", ip)
	}
	if parsed.IsLoopback() {
		t.Errorf("Expected non-loopback IP, got '%s'", ip)
	}
}
