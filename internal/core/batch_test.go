package core

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cavanaug/zk-shell/util"
)

// flakyReader serves one chunk of data, then fails.
type flakyReader struct {
	data   string
	err    error
	served bool
}

func (r *flakyReader) Read(p []byte) (int, error) {
	if r.served {
		return 0, r.err
	}
	r.served = true
	return copy(p, r.data), nil
}

func TestBatchRunsAllCommands(t *testing.T) {
	sh := &fakeShell{}
	m := &BatchMode{
		Shell:  sh,
		Input:  strings.NewReader("create /a hello\nls /\n"),
		Logger: util.NewLogger(0),
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"create /a hello", "ls /"}
	if got := sh.commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("executed = %v, want %v", got, want)
	}
}

func TestBatchStripsLineTerminators(t *testing.T) {
	sh := &fakeShell{}
	m := &BatchMode{
		Shell:  sh,
		Input:  strings.NewReader("ls /\r\nls /a"),
		Logger: util.NewLogger(0),
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"ls /", "ls /a"}
	if got := sh.commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("executed = %v, want %v", got, want)
	}
}

func TestBatchIgnoresCommandFailures(t *testing.T) {
	sh := &fakeShell{execErr: errors.New("no such znode")}
	m := &BatchMode{
		Shell:  sh,
		Input:  strings.NewReader("get /missing\nget /also-missing\n"),
		Logger: util.NewLogger(0),
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("command failures must not affect the exit code, got %v", err)
	}
	if got := sh.commands(); len(got) != 2 {
		t.Errorf("executed = %v, want both commands attempted", got)
	}
}

func TestBatchReadErrorAborts(t *testing.T) {
	broken := errors.New("input: read error")
	sh := &fakeShell{}
	m := &BatchMode{
		Shell:  sh,
		Input:  &flakyReader{data: "cmdA\n", err: broken},
		Logger: util.NewLogger(0),
	}

	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("expected read-side failure to surface")
	}
	if !errors.Is(err, broken) {
		t.Errorf("error = %v, want wrapped %v", err, broken)
	}
	want := []string{"cmdA"}
	if got := sh.commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("executed = %v, want %v (later commands aborted)", got, want)
	}
}
