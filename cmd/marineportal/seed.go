package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"marineportal/internal/config"
	"marineportal/internal/seed"
)

func newSeedCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample records into empty collections",
		Long: "Reads a JSON or YAML file keyed by collection name and inserts its documents\n" +
			"into every collection that is still empty. Populated collections are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(file)
			if path == "" {
				return fmt.Errorf("seed file is required (--file or seed_file)")
			}

			logger := slog.Default().With("component", "seed")
			st, err := openRecordStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeQuietly(logger, "record store", st)

			report, err := seed.EnsureSeeded(cmd.Context(), st, path, logger)
			if err != nil {
				return err
			}
			if handled, err := writeStructured(out, report); handled {
				return err
			}
			return writeSeedReport(report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", cfg.SeedFile, "seed file (.json, .yaml or .yml)")
	return cmd
}

func writeSeedReport(report seed.Report) error {
	if !report.Found {
		return writePlain("seed file %s not found; nothing inserted\n", report.Path)
	}

	kinds := make([]string, 0, len(report.Inserted))
	for kind := range report.Inserted {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		if err := writePlain("inserted %d %s\n", report.Inserted[kind], kind); err != nil {
			return err
		}
	}
	if len(report.Skipped) > 0 {
		if err := writePlain("skipped (not empty): %s\n", strings.Join(report.Skipped, ", ")); err != nil {
			return err
		}
	}
	if len(report.Unknown) > 0 {
		if err := writePlain("ignored unknown collections: %s\n", strings.Join(report.Unknown, ", ")); err != nil {
			return err
		}
	}
	return writePlain("total: %d\n", report.Total())
}
