// Package transport abstracts how zk-shell reaches ensemble hosts:
// directly over TCP or through an SSH bastion.  The shell plugs a
// Dialer into the ZooKeeper client, so the session layer never knows
// which path is in use.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound connections to ensemble hosts.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH client).  Stateless dialers return nil.
	Close() error
}
