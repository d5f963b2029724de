package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

func interactive(sh *fakeShell, sig EventSource, input string) *InteractiveMode {
	return &InteractiveMode{
		Shell:   sh,
		Signals: sig,
		Input:   strings.NewReader(input),
		Output:  io.Discard,
		Banner:  "Welcome to zk-shell (test)",
		Logger:  util.NewLogger(0),
	}
}

func runWithTimeout(t *testing.T, m *InteractiveMode) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not finish")
		return nil
	}
}

func TestInteractiveConfirmedExit(t *testing.T) {
	sh := &fakeShell{script: []loopResult{{err: shell.ErrInterrupted}}}
	m := interactive(sh, nil, "y\n")

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	intros := sh.promptIntros()
	if len(intros) != 1 || intros[0] == "" {
		t.Errorf("intros = %q, want one session with the banner", intros)
	}
}

func TestInteractiveDeclinedExitResumes(t *testing.T) {
	sh := &fakeShell{script: []loopResult{
		{err: shell.ErrInterrupted},
		{err: shell.ErrInterrupted},
	}}
	m := interactive(sh, nil, "n\ny\n")

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	intros := sh.promptIntros()
	if len(intros) != 2 {
		t.Fatalf("sessions = %d, want 2", len(intros))
	}
	if intros[1] != "" {
		t.Errorf("resumed session printed a banner: %q", intros[1])
	}
}

func TestInteractiveConfirmReadFailureExits(t *testing.T) {
	// stdin is gone: the confirmation cannot be read, resuming would
	// spin, so the supervisor exits cleanly.
	sh := &fakeShell{script: []loopResult{{err: shell.ErrInterrupted}}}
	m := interactive(sh, nil, "")

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestInteractiveReconnectRestartsWithoutBanner(t *testing.T) {
	sig := newFakeSignals()
	sh := &fakeShell{script: []loopResult{
		{block: true}, // cancelled by the reconnection event
		{err: shell.ErrInterrupted},
	}}
	m := interactive(sh, sig, "y\n")

	go sig.fire()

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	intros := sh.promptIntros()
	if len(intros) != 2 {
		t.Fatalf("sessions = %d, want restart after reconnect", len(intros))
	}
	if intros[0] == "" || intros[1] != "" {
		t.Errorf("intros = %q, want banner on the first session only", intros)
	}
	if !sig.armed || !sig.disarmed {
		t.Errorf("bridge armed = %v, disarmed = %v", sig.armed, sig.disarmed)
	}
}

func TestInteractiveBannerOnceAcrossManyRestarts(t *testing.T) {
	sig := newFakeSignals()
	sh := &fakeShell{script: []loopResult{
		{block: true},
		{block: true},
		{block: true},
		{err: shell.ErrInterrupted},
	}}
	m := interactive(sh, sig, "y\n")

	go func() {
		for i := 0; i < 3; i++ {
			sig.fire()
		}
	}()

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	banners := 0
	for _, intro := range sh.promptIntros() {
		if intro != "" {
			banners++
		}
	}
	if banners != 1 {
		t.Errorf("banner shown %d times, want exactly once", banners)
	}
}

func TestInteractivePromptLoopReturningNilReenters(t *testing.T) {
	sh := &fakeShell{script: []loopResult{
		{err: nil},
		{err: shell.ErrInterrupted},
	}}
	m := interactive(sh, nil, "y\n")

	if err := runWithTimeout(t, m); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := len(sh.promptIntros()); got != 2 {
		t.Errorf("sessions = %d, want silent re-entry after a clean return", got)
	}
}

func TestInteractiveRootCancellation(t *testing.T) {
	sh := &fakeShell{script: []loopResult{{block: true}}}
	m := interactive(sh, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor ignored root cancellation")
	}
}
