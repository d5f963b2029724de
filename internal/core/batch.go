package core

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

// BatchMode reads newline-delimited commands from Input until
// exhaustion and executes each in order.  Individual command failures
// do not affect the exit code; only a read-side I/O failure does, and
// it aborts the remaining commands.
type BatchMode struct {
	Shell  shell.Shell
	Input  io.Reader
	Logger *util.Logger
}

// Run drains Input.  Trailing line terminators are stripped from each
// command before execution.
func (m *BatchMode) Run(ctx context.Context) error {
	sc := bufio.NewScanner(m.Input)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Shell.ExecuteOne(ctx, sc.Text()); err != nil {
			m.Logger.Debug("command failed: %v", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}
