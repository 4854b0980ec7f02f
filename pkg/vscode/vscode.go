package vscode

import (
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
	"github.com/TheGhostHuCodes/omiros/pkg/reconcile"
)

const program = "code"

// Config is the [vscode] section of system.toml. Extension identifiers
// have the form publisher.name and are case sensitive on install, but
// code --list-extensions reports them lower-cased, so membership is
// tested case-insensitively.
type Config struct {
	Extensions []string `koanf:"extensions"`
}

// CheckInstalled verifies the code CLI is on PATH.
func CheckInstalled(r execute.Runner) error {
	if _, err := r.LookPath(program); err != nil {
		return errors.Wrap(err, errors.ErrPreconditionNotFound, "code not found")
	}
	return nil
}

// InstalledExtensions queries the installed extension identifiers, as
// reported (lower-cased) by the code CLI.
func InstalledExtensions(r execute.Runner) (map[string]struct{}, error) {
	result, err := r.Run(program, "--list-extensions")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrQueryFailed, "code --list-extensions")
	}
	if !result.Success() {
		return nil, errors.Newf(errors.ErrQueryFailed,
			"code --list-extensions exited with status %d: %s",
			result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	installed := make(map[string]struct{})
	for _, line := range strings.Split(result.Stdout, "\n") {
		id := strings.TrimSpace(line)
		if id == "" {
			continue
		}
		installed[id] = struct{}{}
	}
	return installed, nil
}

// Sync installs every missing extension in declared order, preserving
// the declared identifier case on install. It reports whether anything
// was installed.
func Sync(r execute.Runner, cfg Config) (bool, error) {
	logger := logging.GetLogger("vscode")

	if err := CheckInstalled(r); err != nil {
		return false, err
	}

	set := reconcile.Set[string]{
		Kind: "extensions",
		Query: func() (map[string]struct{}, error) {
			return InstalledExtensions(r)
		},
		Install: func(id string) error {
			logger.Info().Str("extension", id).Msg("Installing extension")

			result, err := r.Run(program, "--install-extension", id)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInstallFailed, "code --install-extension %s", id)
			}
			if !result.Success() {
				return errors.Newf(errors.ErrInstallFailed,
					"extension install failed for %s: %s", id, strings.TrimSpace(result.Stderr))
			}
			return nil
		},
		Normalize: strings.ToLower,
	}

	return set.Sync(cfg.Extensions)
}
