package core

import (
	"context"
	"errors"
	"testing"

	"github.com/cavanaug/zk-shell/util"
)

func TestOneShotSuccess(t *testing.T) {
	sh := &fakeShell{}
	m := &OneShotMode{Shell: sh, Command: "ls /", Logger: util.NewLogger(0)}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	got := sh.commands()
	if len(got) != 1 || got[0] != "ls /" {
		t.Errorf("executed = %v, want [ls /]", got)
	}
}

func TestOneShotFailure(t *testing.T) {
	boom := errors.New("no such znode")
	sh := &fakeShell{execErr: boom}
	m := &OneShotMode{Shell: sh, Command: "get /missing", Logger: util.NewLogger(0)}

	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}
