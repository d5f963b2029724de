// zk-shell - an interactive client for ZooKeeper ensembles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cavanaug/zk-shell/cmd"
)

func main() {
	// SIGINT is deliberately not trapped here: in interactive mode the
	// line editor owns Ctrl-C, everywhere else the default disposition
	// applies.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "zk-shell: %v\n", err)
		os.Exit(1)
	}
}
