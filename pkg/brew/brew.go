package brew

import (
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
	"github.com/TheGhostHuCodes/omiros/pkg/reconcile"
)

const program = "brew"

// Config is the [brew] section of system.toml.
type Config struct {
	Formulae []string `koanf:"formulae"`
	Casks    []string `koanf:"casks"`
}

// CheckInstalled verifies the brew CLI is on PATH.
func CheckInstalled(r execute.Runner) error {
	if _, err := r.LookPath(program); err != nil {
		return errors.Wrap(err, errors.ErrPreconditionNotFound, "brew not found")
	}
	return nil
}

// InstalledFormulae queries the leaf formulae currently installed.
func InstalledFormulae(r execute.Runner) (map[string]struct{}, error) {
	return installedSet(r, "leaves")
}

// InstalledCasks queries the casks currently installed.
func InstalledCasks(r execute.Runner) (map[string]struct{}, error) {
	return installedSet(r, "list", "--casks")
}

func installedSet(r execute.Runner, args ...string) (map[string]struct{}, error) {
	result, err := r.Run(program, args...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrQueryFailed, "brew %s", strings.Join(args, " "))
	}
	if !result.Success() {
		return nil, errors.Newf(errors.ErrQueryFailed,
			"brew %s exited with status %d: %s",
			strings.Join(args, " "), result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	installed := make(map[string]struct{})
	for _, line := range strings.Split(result.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		installed[name] = struct{}{}
	}
	return installed, nil
}

// Sync installs every missing formula, then every missing cask, in
// declared order. Both actual sets are read before the first install
// runs. It reports whether anything was installed.
func Sync(r execute.Runner, cfg Config) (bool, error) {
	logger := logging.GetLogger("brew")

	if err := CheckInstalled(r); err != nil {
		return false, err
	}

	installedFormulae, err := InstalledFormulae(r)
	if err != nil {
		return false, err
	}
	installedCasks, err := InstalledCasks(r)
	if err != nil {
		return false, err
	}

	missingFormulae := reconcile.Missing(cfg.Formulae, installedFormulae)
	missingCasks := reconcile.Missing(cfg.Casks, installedCasks)

	changed := false
	for _, name := range missingFormulae {
		logger.Info().Str("formula", name).Msg("Installing formula")
		if err := install(r, name); err != nil {
			return changed, err
		}
		changed = true
	}
	for _, name := range missingCasks {
		logger.Info().Str("cask", name).Msg("Installing cask")
		if err := install(r, "--cask", name); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

func install(r execute.Runner, args ...string) error {
	installArgs := append([]string{"install"}, args...)
	result, err := r.Run(program, installArgs...)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInstallFailed, "brew %s", strings.Join(installArgs, " "))
	}
	if !result.Success() {
		return errors.Newf(errors.ErrInstallFailed,
			"brew %s failed: %s", strings.Join(installArgs, " "), strings.TrimSpace(result.Stderr))
	}
	return nil
}
