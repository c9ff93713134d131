package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/testutil"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_VerboseFlag(t *testing.T) {
	t.Cleanup(func() { internal.SetVerbose(false) })
	store := newStorePath(t)
	if _, err := runCommand(t, store, "--verbose", "list"); err != nil {
		t.Fatalf("list --verbose error = %v", err)
	}
	if !verbose {
		t.Error("--verbose was not parsed")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"add", "cleanup", "clear", "export", "inspect", "list", "new", "rename", "rm", "show", "stats", "sync"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("rootCmd is missing subcommand %q", name)
		}
	}
}

func TestOpenCache_BadConfig(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	storeLocation = "memory://"
	configPath = testutil.CreateConfigFixture(t, testutil.CreateTempDir(t), "max_sessions: -3\n")

	_, _, err := openCache()
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("openCache() error = %v, want config error", err)
	}
}

func TestNewLoader(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	loader, err := newLoader(nil)
	if err != nil || loader != nil {
		t.Errorf("newLoader() without --remote = %v, %v; want nil, nil", loader, err)
	}

	remoteURL = "not a url"
	if _, err := newLoader(nil); err == nil {
		t.Error("newLoader() with an invalid url should fail")
	}
}
