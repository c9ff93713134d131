package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/internal/remote"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	storeLocation string
	configPath    string
	remoteURL     string
	remoteToken   string
	version       string = "dev"
	commit        string = "unknown"
	date          string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arkegu-cache",
	Short: "Inspect and manage the local chat session cache",
	Long: `A CLI for the bounded, expiring cache that keeps recent chat sessions
available without a round trip to the session API.

The cache holds at most 15 sessions of 25 messages each, expires entries
after 12 hours and stays under a 4 MiB storage ceiling by evicting the
least recently active sessions first.

Quick Start:
  arkegu-cache list                          # List cached sessions
  arkegu-cache show <session-id>             # View a cached conversation
  arkegu-cache sync --remote https://api     # Fill the cache from the API
  arkegu-cache export <session-id> --format md

Storage backends (--store):
  ~/.arkegu-cache/cache.db                   # SQLite file (default)
  redis://localhost:6379/0                   # Redis
  memory://                                  # In-process, for trying things out`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultDir is where the config file and SQLite store live by default
func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".arkegu-cache"
	}
	return filepath.Join(homeDir, ".arkegu-cache")
}

// openCache loads the config and opens the configured store. The returned
// function closes the store.
func openCache() (*internal.CacheManager, func(), error) {
	path := configPath
	if path == "" {
		path = filepath.Join(defaultDir(), "config.yaml")
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	location := storeLocation
	if location == "" {
		location = filepath.Join(defaultDir(), "cache.db")
	}
	store, closeStore, err := internal.OpenStore(location, 0, cfg.KeyPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	internal.LogDebug("Opened store %s", location)

	cleanup := func() {
		if err := closeStore(); err != nil {
			internal.LogWarn("Failed to close store: %v", err)
		}
	}
	return internal.NewCacheManager(store, internal.WithConfig(cfg)), cleanup, nil
}

// newLoader builds a read-through loader for --remote, or nil without it
func newLoader(cache *internal.CacheManager) (*remote.Loader, error) {
	if remoteURL == "" {
		return nil, nil
	}
	var opts []remote.ClientOption
	if remoteToken != "" {
		opts = append(opts, remote.WithToken(remoteToken))
	}
	client, err := remote.NewClient(remoteURL, opts...)
	if err != nil {
		return nil, err
	}
	return remote.NewLoader(cache, client), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storeLocation, "store", "", "Store location: SQLite path, sqlite://, redis:// or memory:// (default ~/.arkegu-cache/cache.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.arkegu-cache/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Session API base URL used on cache misses")
	rootCmd.PersistentFlags().StringVar(&remoteToken, "token", "", "Bearer token for the session API")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
