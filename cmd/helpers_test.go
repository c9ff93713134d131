package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/testutil"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag variable to its default so that one
// Execute call does not leak into the next
func resetFlags() {
	verbose = false
	storeLocation = ""
	configPath = ""
	remoteURL = ""
	remoteToken = ""
	listClearCache = false
	limit = 0
	showRender = false
	addRole = internal.RoleUser
	statsJSON = false
	inspectFormat = "text"
	format = "jsonl"
	outputDir = ""
	exportAll = false

	for _, c := range append(rootCmd.Commands(), rootCmd) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Changed = false
		})
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
			}
		}
	}
}

// runCommand executes the CLI with args against a test store and returns
// what it wrote to stdout
func runCommand(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	full := append([]string{"--store", store, "--config", filepath.Join(filepath.Dir(store), "config.yaml")}, args...)
	rootCmd.SetArgs(full)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// newStorePath returns an empty SQLite store location in a temp dir
func newStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.CreateTempDir(t), "cache.db")
}

// newFixtureStore returns a SQLite store seeded with the s1/s2 fixture
func newFixtureStore(t *testing.T) string {
	t.Helper()
	path := newStorePath(t)
	testutil.CreateSQLiteFixture(t, path, time.Now())
	return path
}

// openTestCache opens the store at path directly for assertions
func openTestCache(t *testing.T, path string) *internal.CacheManager {
	t.Helper()
	store, err := internal.OpenSQLiteStore(path, 0)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return internal.NewCacheManager(store)
}
