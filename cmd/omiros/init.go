package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/TheGhostHuCodes/omiros/pkg/config"
)

func newInitCmd() *cobra.Command {
	var systemConfigDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter system.toml",
		Long: `Creates a commented starter system.toml in the given directory with
one example entry per resource kind. Refuses to overwrite an existing
file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(systemConfigDir, config.DefaultFileName)

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			} else if !os.IsNotExist(err) {
				return err
			}

			starter, err := config.Starter()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, starter, 0o644); err != nil {
				return err
			}

			pterm.Success.Printfln("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&systemConfigDir, "system-config-dir", "s", ".",
		"Directory to write the system.toml file into")

	return cmd
}
