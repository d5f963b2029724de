package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cavanaug/zk-shell/internal/reconnect"
	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

// EventSource feeds connection-state transitions into the supervisor.
// Arm is called once before the first prompt session, Disarm when the
// supervisor returns.
type EventSource interface {
	Arm()
	Disarm()
	Events() <-chan reconnect.Event
}

// errRestart unwinds a prompt session cancelled by a reconnection
// event.  Local to the supervisor, never user-visible.
var errRestart = errors.New("restart prompt session")

// InteractiveMode supervises the REPL: it restarts the prompt session
// when the connection changes state and turns a user interrupt into
// an exit confirmation.  The welcome banner is shown on the very
// first session only.
type InteractiveMode struct {
	Shell   shell.Shell
	Signals EventSource // nil when connecting synchronously
	Input   io.Reader   // confirmation prompt reads
	Output  io.Writer
	Banner  string
	Logger  *util.Logger

	in *bufio.Reader
}

// Run loops until the user confirms exit.  A reconnection event is
// never an error and never prompts; it only restarts the session.
func (m *InteractiveMode) Run(ctx context.Context) error {
	var events <-chan reconnect.Event // nil channel blocks forever
	if m.Signals != nil {
		m.Signals.Arm()
		defer m.Signals.Disarm()
		events = m.Signals.Events()
	}
	m.in = bufio.NewReader(m.Input)

	intro := m.Banner
	for {
		err := m.runSession(ctx, intro, events)
		intro = "" // the banner is shown at most once per process
		switch {
		case errors.Is(err, shell.ErrInterrupted):
			if m.confirmExit() {
				return nil
			}
		case errors.Is(err, errRestart):
			m.Logger.Verbose("connection changed state, restarting prompt session")
		case err != nil:
			return err
		}
		// err == nil: the prompt loop finished on its own; re-enter.
	}
}

// runSession runs one prompt session and races it against the
// reconnection event stream and the root context.
func (m *InteractiveMode) runSession(ctx context.Context, intro string,
	events <-chan reconnect.Event) error {

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Shell.RunPromptLoop(sctx, intro)
	}()

	select {
	case <-events:
		cancel()
		<-done // the session must unwind before the next one starts
		return errRestart
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// confirmExit asks the user to confirm leaving the shell.  Only an
// explicit "y" exits; an unreadable answer (stdin gone) also counts
// as affirmative, since resuming the prompt would spin.
func (m *InteractiveMode) confirmExit() bool {
	fmt.Fprint(m.Output, "\nExit? (y|n) ")
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(m.Output)
		return true
	}
	return strings.TrimSpace(line) == "y"
}
