// Package shell implements the command shell for a ZooKeeper
// ensemble: session management, the command set, and the prompt loop
// the execution modes drive.
package shell

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cavanaug/zk-shell/internal/transport"
	"github.com/cavanaug/zk-shell/util"
)

// ErrInterrupted reports that the user interrupted the prompt loop.
// It is not a failure; the supervisor turns it into an exit
// confirmation.
var ErrInterrupted = errors.New("prompt loop interrupted")

// ErrReadOnly rejects a mutating command in a readonly shell.
var ErrReadOnly = errors.New("shell is in readonly mode")

// Shell is the contract the execution modes consume.
type Shell interface {
	// ExecuteOne runs a single command line.  A nil return means the
	// command completed without error.
	ExecuteOne(ctx context.Context, line string) error

	// RunPromptLoop blocks reading and executing commands until the
	// user interrupts it (ErrInterrupted), input is exhausted, or ctx
	// is cancelled.  A non-empty intro is printed before the first
	// prompt.  Cancellation discards any partially typed input.
	RunPromptLoop(ctx context.Context, intro string) error

	// Close releases the ensemble session.
	Close() error
}

// Options configures a ZKShell.
type Options struct {
	Hosts          []string      // ensemble hosts; empty means defaultHost
	ConnectTimeout time.Duration // 0 = wait indefinitely on sync connect
	LineEditing    bool          // readline prompt loop vs. plain reads
	Output         io.Writer     // command output (nil = os.Stdout)
	Input          io.Reader     // prompt input (nil = os.Stdin)
	AsyncConnect   bool          // connect in the background, notify on state changes
	ReadOnly       bool
	HistoryFile    string           // "" = in-memory history only
	Dialer         transport.Dialer // nil = the client's built-in TCP dialer
	Logger         *util.Logger     // nil = quiet
}
