package core

import (
	"io"

	"github.com/cavanaug/zk-shell/config"
	"github.com/cavanaug/zk-shell/internal/reconnect"
	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

// Build constructs the Mode for cfg.  This is the single dispatch
// point: a non-empty --run-once wins, then --run-from-stdin, then
// interactive.  The reconnection bridge is created only for the
// asynchronously connecting interactive path; in every other
// configuration no signal handler exists at all.
func Build(cfg *config.Config, sh shell.Shell, in io.Reader, out io.Writer,
	logger *util.Logger, banner string) Mode {

	switch cfg.Mode() {
	case config.ModeOneShot:
		return &OneShotMode{
			Shell:   sh,
			Command: cfg.RunOnce,
			Logger:  logger,
		}
	case config.ModeBatch:
		return &BatchMode{
			Shell:  sh,
			Input:  in,
			Logger: logger,
		}
	default:
		m := &InteractiveMode{
			Shell:  sh,
			Input:  in,
			Output: out,
			Banner: banner,
			Logger: logger,
		}
		if cfg.AsyncConnect() {
			m.Signals = reconnect.NewBridge()
		}
		return m
	}
}
