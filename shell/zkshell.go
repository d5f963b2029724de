package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/go-zookeeper/zk"

	"github.com/cavanaug/zk-shell/util"
)

const defaultHost = "localhost:2181"

// ZKShell is the ZooKeeper-backed Shell implementation.
type ZKShell struct {
	conn   *zk.Conn
	opts   Options
	out    io.Writer
	in     io.Reader
	logger *util.Logger
	cwd    string

	// notifyReconnect raises the reconnection notification at the own
	// process.  Replaceable in tests.
	notifyReconnect func()

	sessionSeen bool // a live session was observed at least once
}

// New connects to the ensemble and returns a ready shell.  With
// AsyncConnect the session is established in the background and
// state transitions after the first session raise SIGUSR2; otherwise
// New blocks until a session exists or the connect timeout elapses.
func New(opts Options) (*ZKShell, error) {
	s := &ZKShell{
		opts:   opts,
		out:    opts.Output,
		in:     opts.Input,
		logger: opts.Logger,
		cwd:    "/",
		notifyReconnect: func() {
			_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR2)
		},
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.in == nil {
		s.in = os.Stdin
	}
	if s.logger == nil {
		s.logger = util.NewLogger(0)
	}

	hosts := opts.Hosts
	if len(hosts) == 0 {
		hosts = []string{defaultHost}
	}

	// The client library requires a sane session timeout.
	sessionTimeout := opts.ConnectTimeout
	if sessionTimeout < time.Second {
		sessionTimeout = 10 * time.Second
	}

	conn, events, err := s.connect(zk.FormatServers(hosts), sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", strings.Join(hosts, ","), err)
	}
	s.conn = conn

	if !opts.AsyncConnect {
		if err := waitForSession(events, opts.ConnectTimeout); err != nil {
			conn.Close()
			return nil, err
		}
		s.sessionSeen = true
	}
	go s.watchSession(events)

	return s, nil
}

func (s *ZKShell) connect(servers []string, sessionTimeout time.Duration) (*zk.Conn, <-chan zk.Event, error) {
	logger := zkLogger{s.logger}
	if s.opts.Dialer != nil {
		dial := func(network, address string, timeout time.Duration) (net.Conn, error) {
			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return s.opts.Dialer.Dial(ctx, network, address)
		}
		return zk.Connect(servers, sessionTimeout,
			zk.WithLogger(logger), zk.WithLogInfo(false), zk.WithDialer(dial))
	}
	return zk.Connect(servers, sessionTimeout,
		zk.WithLogger(logger), zk.WithLogInfo(false))
}

// waitForSession blocks until the connection reaches a live session.
// A zero timeout waits indefinitely.
func waitForSession(events <-chan zk.Event, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return errors.New("connection closed before a session was established")
			}
			if ev.Type != zk.EventSession {
				continue
			}
			switch ev.State {
			case zk.StateHasSession:
				return nil
			case zk.StateAuthFailed:
				return errors.New("authentication failed")
			}
		case <-deadline:
			return fmt.Errorf("no session after %s", timeout)
		}
	}
}

// watchSession follows session events for the lifetime of the
// connection.  In async mode every transition after the first live
// session raises the reconnection notification, so the prompt loop
// restarts and reflects the new state.
func (s *ZKShell) watchSession(events <-chan zk.Event) {
	for ev := range events {
		if ev.Type != zk.EventSession {
			continue
		}
		s.logger.Debug("session event: %s", ev.State)
		switch ev.State {
		case zk.StateHasSession:
			if s.sessionSeen && s.opts.AsyncConnect {
				s.notifyReconnect()
			}
			s.sessionSeen = true
		case zk.StateDisconnected, zk.StateExpired:
			if s.sessionSeen && s.opts.AsyncConnect {
				s.notifyReconnect()
			}
		}
	}
}

// Close releases the ensemble session.
func (s *ZKShell) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

// ── prompt loop ──────────────────────────────────────────────────────

// RunPromptLoop reads and executes commands until interrupted,
// exhausted, or cancelled.
func (s *ZKShell) RunPromptLoop(ctx context.Context, intro string) error {
	if intro != "" {
		fmt.Fprintln(s.out, intro)
	}
	if s.opts.LineEditing {
		return s.promptLoopReadline(ctx)
	}
	return s.promptLoopPlain(ctx)
}

func (s *ZKShell) promptLoopReadline(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.opts.HistoryFile,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	// A cancelled context closes the pending read; partially typed
	// input is discarded with it.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			rl.Close()
		case <-stop:
		}
	}()

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			return ErrInterrupted
		case errors.Is(err, io.EOF):
			// Ctrl-D takes the same confirmation path as Ctrl-C.
			return ErrInterrupted
		case err != nil:
			return err
		}
		s.dispatch(ctx, line)
	}
}

func (s *ZKShell) promptLoopPlain(ctx context.Context) error {
	sc := bufio.NewScanner(s.in)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.out, s.prompt())
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return ErrInterrupted
		}
		s.dispatch(ctx, sc.Text())
	}
}

// dispatch runs one line, reporting command failures to the user
// instead of unwinding the loop.
func (s *ZKShell) dispatch(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if err := s.ExecuteOne(ctx, line); err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
	}
}

func (s *ZKShell) prompt() string {
	state := zk.StateDisconnected
	if s.conn != nil {
		state = s.conn.State()
	}
	return fmt.Sprintf("(%s) %s> ", stateLabel(state), s.cwd)
}

// stateLabel maps client states onto the short labels shown in the
// prompt.
func stateLabel(st zk.State) string {
	switch st {
	case zk.StateHasSession:
		return "CONNECTED"
	case zk.StateConnectedReadOnly:
		return "CONNECTED_RO"
	case zk.StateConnecting, zk.StateConnected:
		return "CONNECTING"
	case zk.StateExpired:
		return "EXPIRED"
	case zk.StateAuthFailed:
		return "AUTH_FAILED"
	default:
		return "DISCONNECTED"
	}
}

// zkLogger adapts util.Logger to the client library's logger.
type zkLogger struct {
	l *util.Logger
}

func (z zkLogger) Printf(format string, args ...interface{}) {
	z.l.Debug(format, args...)
}
