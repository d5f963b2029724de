package core

import (
	"context"
	"fmt"

	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

// OneShotMode executes a single command and exits.
type OneShotMode struct {
	Shell   shell.Shell
	Command string
	Logger  *util.Logger
}

// Run executes the command.  Any failure, including an I/O failure
// while writing output, surfaces as the error that becomes exit
// code 1.
func (m *OneShotMode) Run(ctx context.Context) error {
	m.Logger.Verbose("one-shot: %s", m.Command)
	if err := m.Shell.ExecuteOne(ctx, m.Command); err != nil {
		return fmt.Errorf("run-once: %w", err)
	}
	return nil
}
