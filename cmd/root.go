// Package cmd wires up the CLI flags and dispatches to the zk-shell
// core.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/cavanaug/zk-shell/config"
	"github.com/cavanaug/zk-shell/internal/core"
	"github.com/cavanaug/zk-shell/internal/transport"
	"github.com/cavanaug/zk-shell/shell"
	"github.com/cavanaug/zk-shell/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X github.com/cavanaug/zk-shell/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// runFlags carries the flags that control Execute itself rather than
// the shell configuration.
type runFlags struct {
	fs          *flag.FlagSet
	showVersion bool
	showHelp    bool
	dryRun      bool
}

// parseArgs resolves the configuration: defaults, then the ZKSHELL_*
// environment, then flags.
func parseArgs(args []string) (*config.Config, *runFlags, error) {
	cfg := &config.Config{
		ConnectTimeout: config.DefaultConnectTimeout,
		HistoryFile:    config.DefaultHistoryFile(),
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("zk-shell", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.IntVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout,
		"Ensemble connect timeout in seconds")
	fs.BoolVar(&cfg.SyncConnect, "sync-connect", cfg.SyncConnect,
		"Connect synchronously")
	fs.BoolVar(&cfg.ReadOnly, "readonly", cfg.ReadOnly,
		"Reject commands that modify znodes")

	// ── execution ────────────────────────────────────────────────
	fs.StringVar(&cfg.RunOnce, "run-once", cfg.RunOnce,
		"Run a command non-interactively and exit")
	fs.BoolVar(&cfg.RunFromStdin, "run-from-stdin", cfg.RunFromStdin,
		"Read commands from stdin, run them and exit")

	// ── SSH bastion ──────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec,
		"Reach the ensemble via an SSH bastion [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath,
		"SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword,
		"Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent,
		"Use SSH agent")

	// ── output ───────────────────────────────────────────────────
	// CountVar zeroes the bound int at registration, which would
	// drop an env-provided verbosity.  Keep it unless the flag is
	// actually given.
	envVerbose := cfg.Verbose
	fs.CountVarP(&cfg.Verbose, "verbose", "v",
		"Increase verbosity (repeatable)")
	fs.StringVar(&cfg.HistoryFile, "history-file", cfg.HistoryFile,
		"Readline history file")

	rf := &runFlags{fs: fs}
	fs.BoolVar(&rf.showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&rf.showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&rf.dryRun, "dry-run", false, "Validate the configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if !fs.Changed("verbose") {
		cfg.Verbose = envVerbose
	}

	// Positional hosts override the env-provided list.
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Hosts = rest
	}

	return cfg, rf, nil
}

// Execute parses args and runs the selected zk-shell mode.
func Execute(ctx context.Context, args []string) error {
	cfg, rf, err := parseArgs(args)
	if err != nil {
		return err
	}

	if rf.showHelp {
		printUsage(rf.fs)
		return nil
	}
	if rf.showVersion {
		fmt.Printf("zk-shell %s\n", version)
		return nil
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	mode := cfg.Mode()

	if rf.dryRun {
		fmt.Printf("configuration OK (mode: %s)\n", mode)
		return nil
	}

	// ── build components ─────────────────────────────────────────
	// os.Stdout is already unbuffered in Go; the adapter only takes
	// effect if out is ever swapped for a buffered writer.
	out := io.Writer(os.Stdout)
	if mode != config.ModeInteractive {
		out = util.NewFlushWriter(out)
	}

	dialer := buildDialer(cfg, logger)
	defer dialer.Close()

	sh, err := shell.New(shell.Options{
		Hosts:          cfg.Hosts,
		ConnectTimeout: cfg.Timeout(),
		LineEditing:    mode == config.ModeInteractive,
		Output:         out,
		AsyncConnect:   cfg.AsyncConnect(),
		ReadOnly:       cfg.ReadOnly,
		HistoryFile:    cfg.HistoryFile,
		Dialer:         dialer,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer sh.Close()

	banner := fmt.Sprintf("Welcome to zk-shell (%s)", version)
	return core.Build(cfg, sh, os.Stdin, out, logger, banner).Run(ctx)
}

// buildDialer picks the transport for ensemble connections: the SSH
// bastion when a tunnel is configured, direct TCP otherwise.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&transport.SSHConfig{
			User:       cfg.TunnelUser,
			Host:       cfg.TunnelHost,
			Port:       cfg.TunnelPort,
			KeyPath:    cfg.SSHKeyPath,
			PromptPass: cfg.SSHPassword,
			UseAgent:   cfg.UseSSHAgent,
		}, logger)
	}
	return &transport.TCPDialer{Timeout: cfg.Timeout()}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `zk-shell %s - an interactive client for ZooKeeper ensembles

Usage:
  zk-shell [options] [hosts...]                 Interactive shell
  zk-shell --run-once "cmd" [hosts...]          Run one command
  zk-shell --run-from-stdin [hosts...] < cmds   Run piped commands

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  zk-shell zk1:2181 zk2:2181                    Connect to an ensemble
  zk-shell --run-once "ls /" localhost          List the root znode
  echo "create /a hello" | zk-shell --run-from-stdin
  zk-shell -T admin@bastion zk-internal:2181    Connect via SSH
`)
}
