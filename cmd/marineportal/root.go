package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marineportal/internal/config"
)

type outputOptions struct {
	json   bool
	format string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		logLevel string
		out      outputOptions
	)

	cmd := &cobra.Command{
		Use:           "marineportal",
		Short:         "Marineportal collects ingestion, otolith and eDNA records and charts them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&out.json, "json", false, "output JSON")
	cmd.PersistentFlags().StringVarP(&out.format, "output", "o", "", "structured output format (json, yaml)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newSeedCmd(cfg, &out),
		newStatsCmd(cfg, &out),
		newListCmd(cfg, &out),
		newConfigCmd(cfg),
	)

	return cmd
}
