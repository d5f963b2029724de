// Package core dispatches a resolved configuration to one of the
// three execution modes and supervises the interactive one.
//
// Layering (bottom → top):
//
//	transport  →  shell  →  core  →  cmd (CLI)
//
// core owns control flow only; all command semantics live in the
// shell collaborator.
package core

import "context"

// Mode is a complete run mode of zk-shell (one-shot, batch, or
// interactive).  Run blocks for the lifetime of the mode; a nil
// return maps to exit code 0, an error to exit code 1.
type Mode interface {
	Run(ctx context.Context) error
}
