package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marineportal/internal/config"
)

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, get or set configuration",
	}

	cmd.AddCommand(newConfigListCmd(cfg), newConfigGetCmd(cfg), newConfigSetCmd())
	return cmd
}

func newConfigListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every effective config value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range config.AllowedKeys() {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if err := writePlain("%s = %s\n", key, value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get an effective config value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.AllowedKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown key: %s (allowed: %v)", key, config.AllowedKeys())
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			return writePlain("%s\n", value)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a config value to " + config.FileName,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			var path string
			var err error
			if global {
				path, err = config.GlobalPath()
			} else {
				path, err = config.ProjectPath()
			}
			if err != nil {
				return err
			}

			if err := config.SetKey(path, key, value); err != nil {
				return err
			}
			return writePlain("set %s in %s\n", key, path)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write to the global config (~/"+config.FileName+")")
	return cmd
}
