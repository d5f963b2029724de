package core

import (
	"context"
	"sync"

	"github.com/cavanaug/zk-shell/internal/reconnect"
)

// loopResult scripts one RunPromptLoop call of the fake shell.
type loopResult struct {
	err   error
	block bool // wait for cancellation instead of returning
}

// fakeShell records executed commands and plays back a scripted
// sequence of prompt-loop outcomes.
type fakeShell struct {
	mu       sync.Mutex
	executed []string
	execErr  error
	intros   []string
	script   []loopResult
	calls    int
}

func (f *fakeShell) ExecuteOne(_ context.Context, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, line)
	return f.execErr
}

func (f *fakeShell) RunPromptLoop(ctx context.Context, intro string) error {
	f.mu.Lock()
	f.intros = append(f.intros, intro)
	var r loopResult
	if f.calls < len(f.script) {
		r = f.script[f.calls]
	}
	f.calls++
	f.mu.Unlock()

	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

func (f *fakeShell) Close() error { return nil }

func (f *fakeShell) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.executed...)
}

func (f *fakeShell) promptIntros() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.intros...)
}

// fakeSignals is an in-memory EventSource.
type fakeSignals struct {
	mu       sync.Mutex
	armed    bool
	disarmed bool
	events   chan reconnect.Event
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{events: make(chan reconnect.Event, 1)}
}

func (f *fakeSignals) Arm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = true
}

func (f *fakeSignals) Disarm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disarmed = true
}

func (f *fakeSignals) Events() <-chan reconnect.Event { return f.events }

func (f *fakeSignals) fire() { f.events <- reconnect.Event{} }
