package main

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/TheGhostHuCodes/omiros/pkg/config"
	"github.com/TheGhostHuCodes/omiros/pkg/core"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/filesystem"
)

func newSyncCmd() *cobra.Command {
	var (
		systemConfigDir string
		dotfilesDir     string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring the system in line with system.toml",
		Long: `Reads the system.toml in the given configuration directory and
reconciles every declared resource kind: missing Homebrew packages and
Mac App Store apps are installed, dotfile symlinks converged, VS Code
extensions installed, and macOS preference values written, restarting
the affected processes only when something actually changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				pterm.DisableColor()
			}

			cfg, err := config.Load(filepath.Join(systemConfigDir, config.DefaultFileName))
			if err != nil {
				return err
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}

			absDotfiles, err := filepath.Abs(dotfilesDir)
			if err != nil {
				return err
			}

			result, runErr := core.Run(core.Options{
				Runner:       execute.NewRunner(),
				FS:           filesystem.NewOS(),
				DotfilesRoot: absDotfiles,
				Home:         home,
			}, cfg)

			for _, outcome := range result.Outcomes {
				switch {
				case outcome.Skipped:
					pterm.Info.Printfln("%s: no section in configuration file, skipped", outcome.Kind)
				case outcome.Changed:
					pterm.Success.Printfln("%s: updated", outcome.Kind)
				default:
					pterm.Success.Printfln("%s: already up to date", outcome.Kind)
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&systemConfigDir, "system-config-dir", "s", ".",
		"Directory containing the system.toml file")
	cmd.Flags().StringVarP(&dotfilesDir, "dotfiles-dir", "d", ".",
		"Directory containing the dotfiles")

	return cmd
}
