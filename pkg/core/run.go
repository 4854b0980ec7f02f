package core

import (
	"github.com/TheGhostHuCodes/omiros/pkg/brew"
	"github.com/TheGhostHuCodes/omiros/pkg/config"
	"github.com/TheGhostHuCodes/omiros/pkg/dotfiles"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
	"github.com/TheGhostHuCodes/omiros/pkg/macos"
	"github.com/TheGhostHuCodes/omiros/pkg/mas"
	"github.com/TheGhostHuCodes/omiros/pkg/types"
	"github.com/TheGhostHuCodes/omiros/pkg/vscode"
)

// KindOutcome is the result of reconciling one resource kind.
type KindOutcome struct {
	Kind    string
	Skipped bool // section absent from the configuration
	Changed bool
}

// Result aggregates the per-kind outcomes of one run.
type Result struct {
	Outcomes []KindOutcome
}

// Changed reports whether any resource kind performed a change.
func (r *Result) Changed() bool {
	for _, o := range r.Outcomes {
		if o.Changed {
			return true
		}
	}
	return false
}

// Options holds the collaborators for one run. Runner and FS are
// injectable for tests.
type Options struct {
	Runner       execute.Runner
	FS           types.FS
	DotfilesRoot string
	Home         string
}

// Run reconciles every declared resource kind in a fixed order: brew,
// mas, dotfiles, vscode, macos. The first failure aborts the run;
// every unit of work is idempotent, so an aborted run is safely
// re-runnable. Sections absent from the configuration are skipped.
func Run(opts Options, cfg *config.Config) (*Result, error) {
	logger := logging.GetLogger("core")
	result := &Result{}

	record := func(kind string, skipped, changed bool) {
		result.Outcomes = append(result.Outcomes, KindOutcome{
			Kind:    kind,
			Skipped: skipped,
			Changed: changed,
		})
	}

	if cfg.Brew != nil {
		changed, err := brew.Sync(opts.Runner, *cfg.Brew)
		record("brew", false, changed)
		if err != nil {
			return result, err
		}
	} else {
		record("brew", true, false)
	}

	if cfg.Mas != nil {
		changed, err := mas.Sync(opts.Runner, *cfg.Mas)
		record("mas", false, changed)
		if err != nil {
			return result, err
		}
	} else {
		record("mas", true, false)
	}

	if cfg.Dotfiles != nil {
		changed, err := dotfiles.Reconcile(dotfiles.Options{
			FS:   opts.FS,
			Root: opts.DotfilesRoot,
			Home: opts.Home,
		}, *cfg.Dotfiles)
		record("dotfiles", false, changed)
		if err != nil {
			return result, err
		}
	} else {
		record("dotfiles", true, false)
	}

	if cfg.Vscode != nil {
		changed, err := vscode.Sync(opts.Runner, *cfg.Vscode)
		record("vscode", false, changed)
		if err != nil {
			return result, err
		}
	} else {
		record("vscode", true, false)
	}

	if cfg.Macos != nil {
		changed, err := macos.Sync(opts.Runner, *cfg.Macos)
		record("macos", false, changed)
		if err != nil {
			return result, err
		}
	} else {
		record("macos", true, false)
	}

	logger.Info().Bool("changed", result.Changed()).Msg("Run complete")
	return result, nil
}
