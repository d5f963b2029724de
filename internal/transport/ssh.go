package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/cavanaug/zk-shell/util"
)

// SSHConfig describes the bastion hop.
type SSHConfig struct {
	User       string // "" → $USER
	Host       string
	Port       int
	KeyPath    string
	PromptPass bool // prompt for a password interactively
	UseAgent   bool
}

// SSHDialer routes ensemble connections through an SSH bastion.  The
// SSH client is established lazily on the first Dial and reused for
// every subsequent connection, including the client library's own
// reconnects.
type SSHDialer struct {
	cfg    *SSHConfig
	logger *util.Logger

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHDialer creates a dialer for the given bastion.  Nothing is
// connected until the first Dial.
func NewSSHDialer(cfg *SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{cfg: cfg, logger: logger}
}

func (d *SSHDialer) connect() (*ssh.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return d.client, nil
	}

	methods, err := buildAuthMethods(d.cfg)
	if err != nil {
		return nil, err
	}

	user := d.cfg.User
	if user == "" {
		user = os.Getenv("USER")
	}
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))

	d.logger.Verbose("establishing SSH connection to %s@%s", user, addr)
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User: user,
		Auth: methods,
		// Bastion host keys are not verified; this mirrors plain
		// `ssh -o StrictHostKeyChecking=no` usage.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("ssh %s@%s: %w", user, addr, err)
	}

	d.client = client
	return client, nil
}

// Dial opens a connection to address through the bastion, connecting
// the SSH client on first use.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	client, err := d.connect()
	if err != nil {
		return nil, err
	}
	return client.DialContext(ctx, network, address)
}

// Close tears down the SSH client.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	client := d.client
	d.client = nil
	return client.Close()
}
