package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkegu/arkegu-cache/internal"
	"github.com/arkegu/arkegu-cache/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export cached sessions",
	Long: `Export cached sessions as jsonl, markdown, yaml or json.

Give a session id to export one session, or --all to export every session in
the cached index that still has its messages cached. Without --out a single
session is written to stdout.

Examples:
  arkegu-cache export 3f2a... --format md
  arkegu-cache export --all --format jsonl --out ./exports`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportAll == (len(args) == 1) {
			return fmt.Errorf("give either a session id or --all")
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		if !exportAll {
			rec, err := loadSession(cmd, cache, args[0])
			if err != nil {
				return err
			}
			if outputDir == "" {
				return exporter.Export(&rec, cmd.OutOrStdout())
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path, err := exportToFile(exporter, &rec, outputDir)
			if err != nil {
				return err
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %s to %s", rec.ID, path))
			return nil
		}

		if outputDir == "" {
			outputDir = "./exports"
		}
		sessions, _ := cache.GetSessionsFromCache()

		exported, err := internal.ShowProgressResult(cmd.Context(), fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() (int, error) {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return 0, fmt.Errorf("failed to create output directory: %w", err)
			}
			n := 0
			for _, s := range sessions {
				rec, ok := cache.GetSessionFromCache(s.ID)
				if !ok {
					internal.LogWarn("Skipping %s: messages not cached", s.ID)
					continue
				}
				if _, err := exportToFile(exporter, &rec, outputDir); err != nil {
					internal.LogError("Failed to export session %s: %v", s.ID, err)
					continue
				}
				n++
			}
			return n, nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, outputDir))
		return nil
	},
}

func exportToFile(exporter export.Exporter, rec *internal.SessionRecord, dir string) (string, error) {
	name := fmt.Sprintf("session_%s.%s", rec.ID, exporter.Extension())
	if rec.ID == "" || strings.ContainsAny(rec.ID, `/\`) || strings.Contains(rec.ID, "..") || filepath.Base(name) != name {
		return "", fmt.Errorf("session id %q is not usable as a file name", rec.ID)
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := exporter.Export(rec, file); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to export session %s: %w", rec.ID, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file %s: %w", path, err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats(), ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default stdout, or ./exports with --all)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every cached session")
}
