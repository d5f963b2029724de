package transport

import (
	"context"
	"net"
	"time"
)

// TCPDialer establishes plain TCP connections.
type TCPDialer struct {
	Timeout time.Duration
}

// Dial connects to address directly.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
