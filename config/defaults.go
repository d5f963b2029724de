package config

import (
	"os"
	"path/filepath"
)

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultConnectTimeout is the ensemble connect timeout in seconds.
	DefaultConnectTimeout = 10

	// DefaultHost is used when no ensemble hosts are given.
	DefaultHost = "localhost:2181"

	// DefaultSSHPort is the standard SSH port for bastion tunnels.
	DefaultSSHPort = 22

	// historyFileName is the per-user readline history file.
	historyFileName = ".zkshell_history"
)

// DefaultHistoryFile returns the history file path under the user's
// home directory, or "" when the home directory cannot be resolved
// (history is then kept in memory only).
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}
