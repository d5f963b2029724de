// Package config defines the runtime configuration for zk-shell and
// derives the execution mode from it.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds every tuneable for a single zk-shell run.  It is built
// once at startup and never mutated afterwards.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Hosts          []string // ensemble hosts; empty means the default host
	ConnectTimeout int      // seconds
	SyncConnect    bool     // establish the session before the first prompt
	ReadOnly       bool     // reject commands that modify znodes

	// ── Execution ────────────────────────────────────────────────────
	RunOnce      string // single command to run non-interactively
	RunFromStdin bool   // read commands from stdin and exit

	// ── SSH bastion ──────────────────────────────────────────────────
	TunnelSpec    string // raw [user@]host[:port] from -T
	TunnelEnabled bool
	TunnelUser    string
	TunnelHost    string
	TunnelPort    int
	SSHKeyPath    string
	SSHPassword   bool // true → prompt interactively
	UseSSHAgent   bool

	// ── Output ───────────────────────────────────────────────────────
	Verbose     int
	HistoryFile string
}

// ── Execution mode ───────────────────────────────────────────────────

// Mode is one of the three ways zk-shell can run.
type Mode int

const (
	// ModeInteractive runs the supervised prompt loop.
	ModeInteractive Mode = iota
	// ModeOneShot runs a single command and exits.
	ModeOneShot
	// ModeBatch reads commands from stdin until exhaustion and exits.
	ModeBatch
)

func (m Mode) String() string {
	switch m {
	case ModeOneShot:
		return "one-shot"
	case ModeBatch:
		return "batch"
	default:
		return "interactive"
	}
}

// Mode derives the execution mode from the configuration.  A non-empty
// --run-once wins over --run-from-stdin; the mode is never stored, it
// is recomputed wherever needed.
func (c *Config) Mode() Mode {
	switch {
	case c.RunOnce != "":
		return ModeOneShot
	case c.RunFromStdin:
		return ModeBatch
	default:
		return ModeInteractive
	}
}

// AsyncConnect reports whether the session is established in the
// background.  Only the interactive mode connects asynchronously, and
// --sync-connect overrides it.  This is also the predicate for arming
// the reconnection signal bridge.
func (c *Config) AsyncConnect() bool {
	return c.Mode() == ModeInteractive && !c.SyncConnect
}

// Timeout returns the connect timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22, user to the
// invoking user (resolved later by the dialer).
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	rest := spec
	if u, r, ok := strings.Cut(rest, "@"); ok {
		user = u
		rest = r
	}
	port = DefaultSSHPort
	if h, p, ok := strings.Cut(rest, ":"); ok {
		rest = h
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", p)
		}
	}
	host = rest
	if host == "" {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q - expected [user@]host[:port]", spec)
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Error reports a malformed invocation argument.  It is raised before
// any execution mode runs.
type Error struct {
	Field   string      // flag name
	Value   interface{} // the offending value (nil if missing)
	Message string
	Hint    string // suggestion for the user (optional)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ConnectTimeout < 0 {
		return &Error{
			Field:   "connect-timeout",
			Value:   c.ConnectTimeout,
			Message: "must be zero or positive",
		}
	}

	if !c.TunnelEnabled {
		if c.SSHKeyPath != "" || c.SSHPassword || c.UseSSHAgent {
			return &Error{
				Field:   "tunnel",
				Message: "SSH options given without a tunnel",
				Hint:    "add -T [user@]host[:port] to reach the ensemble via a bastion",
			}
		}
		return nil
	}

	if c.TunnelHost == "" {
		return &Error{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: "tunnel host is required",
		}
	}
	if c.SSHKeyPath != "" && c.SSHPassword {
		return &Error{
			Field:   "ssh-password",
			Message: "--ssh-key and --ssh-password are mutually exclusive",
		}
	}
	return nil
}
