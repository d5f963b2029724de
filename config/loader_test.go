package config

import (
	"reflect"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ZKSHELL_HOSTS", "zk1:2181,zk2:2181")
	t.Setenv("ZKSHELL_CONNECT_TIMEOUT", "30")
	t.Setenv("ZKSHELL_READONLY", "true")
	t.Setenv("ZKSHELL_SYNC_CONNECT", "1")
	t.Setenv("ZKSHELL_TUNNEL", "admin@bastion")
	t.Setenv("ZKSHELL_VERBOSE", "2")

	cfg := &Config{ConnectTimeout: DefaultConnectTimeout}
	LoadFromEnv(cfg)

	if want := []string{"zk1:2181", "zk2:2181"}; !reflect.DeepEqual(cfg.Hosts, want) {
		t.Errorf("Hosts = %v, want %v", cfg.Hosts, want)
	}
	if cfg.ConnectTimeout != 30 {
		t.Errorf("ConnectTimeout = %d, want 30", cfg.ConnectTimeout)
	}
	if !cfg.ReadOnly {
		t.Error("ReadOnly not set")
	}
	if !cfg.SyncConnect {
		t.Error("SyncConnect not set")
	}
	if cfg.TunnelSpec != "admin@bastion" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d, want 2", cfg.Verbose)
	}
}

func TestLoadFromEnvEmptyKeepsDefaults(t *testing.T) {
	cfg := &Config{ConnectTimeout: DefaultConnectTimeout}
	LoadFromEnv(cfg)

	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %d, want %d", cfg.ConnectTimeout, DefaultConnectTimeout)
	}
	if len(cfg.Hosts) != 0 || cfg.ReadOnly || cfg.SyncConnect {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadFromEnvBadInt(t *testing.T) {
	t.Setenv("ZKSHELL_CONNECT_TIMEOUT", "soon")

	cfg := &Config{ConnectTimeout: DefaultConnectTimeout}
	LoadFromEnv(cfg)

	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %d, want default on parse failure", cfg.ConnectTimeout)
	}
}

func TestSplitHosts(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"zk1:2181,zk2:2181", []string{"zk1:2181", "zk2:2181"}},
		{"zk1 zk2", []string{"zk1", "zk2"}},
		{"zk1, zk2", []string{"zk1", "zk2"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitHosts(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitHosts(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
