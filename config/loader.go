package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults
//
// Every supported env var uses the ZKSHELL_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

import (
	"os"
	"strconv"
	"strings"
)

// LoadFromEnv overlays environment variables onto cfg.  Only set env
// vars override the existing value.  Call this BEFORE CLI flag parsing
// so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("ZKSHELL_HOSTS"); v != "" {
		cfg.Hosts = splitHosts(v)
	}
	if v, ok := envInt("ZKSHELL_CONNECT_TIMEOUT"); ok {
		cfg.ConnectTimeout = v
	}
	if envBool("ZKSHELL_SYNC_CONNECT") {
		cfg.SyncConnect = true
	}
	if envBool("ZKSHELL_READONLY") {
		cfg.ReadOnly = true
	}

	// SSH bastion
	if v := os.Getenv("ZKSHELL_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("ZKSHELL_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("ZKSHELL_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}

	// Output
	if v, ok := envInt("ZKSHELL_VERBOSE"); ok && v > 0 {
		cfg.Verbose = v
	}
	if v := os.Getenv("ZKSHELL_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

// splitHosts accepts both comma- and whitespace-separated host lists.
func splitHosts(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
