package cli

import (
	"io"
	"testing"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := map[string]bool{
		"discover":   false,
		"urls":       false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cmd := newTestCLI().discoverCommand()

	tests := []struct {
		flag string
		want string
	}{
		{"count", "100"},
		{"page-limit", "400"},
		{"workers", "6"},
		{"output", "results/popular_repos.json"},
		{"no-cache", "false"},
		{"refresh", "false"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("flag --%s not defined", tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestDiscoverRejectsBadSourceNotation(t *testing.T) {
	c := newTestCLI()
	cmd := c.discoverCommand()
	cmd.SetArgs([]string{"--source", "not-a-repo", "--no-cache"})
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for invalid repository notation")
	}
}

func TestDiscoverRequiresSources(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // no config file with sources

	c := newTestCLI()
	cmd := c.discoverCommand()
	cmd.SetArgs([]string{"--no-cache"})
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no seed repositories are given")
	}
}
