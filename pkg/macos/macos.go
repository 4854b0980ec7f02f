package macos

import (
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/defaults"
	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
)

// Config is the [macos] section of system.toml. Every group and every
// key within a group is optional; only declared keys are reconciled.
type Config struct {
	Dock           *Dock           `koanf:"dock"`
	MissionControl *MissionControl `koanf:"mission-control"`
	Safari         *Safari         `koanf:"safari"`
	System         *System         `koanf:"system"`
	MagicMouse     *MagicMouse     `koanf:"magic-mouse"`
	Finder         *Finder         `koanf:"finder"`
}

// Dock holds the com.apple.dock preferences.
type Dock struct {
	Orientation *string `koanf:"orientation"`
	Autohide    *bool   `koanf:"autohide"`
	IconSize    *int    `koanf:"icon-size"`
}

// MissionControl holds the spaces-related com.apple.dock preferences.
type MissionControl struct {
	MRUSpaces *bool `koanf:"mru-spaces"`
}

// Safari holds the com.apple.Safari preferences.
type Safari struct {
	ShowFullURL *bool `koanf:"show-full-url"`
}

// System holds the NSGlobalDomain preferences.
type System struct {
	ShowFileExtensions *bool `koanf:"show-file-extensions"`
	NaturalScrolling   *bool `koanf:"natural-scrolling"`
}

// MagicMouse holds the com.apple.AppleMultitouchMouse preferences.
type MagicMouse struct {
	ButtonMode *string `koanf:"button-mode"`
}

// Finder holds the com.apple.finder preferences.
type Finder struct {
	ShowPathbar   *bool `koanf:"show-pathbar"`
	ShowStatusBar *bool `koanf:"show-status-bar"`
}

var (
	orientationValues = defaults.Enum{Allowed: []string{"left", "bottom", "right"}}
	buttonModeValues  = defaults.Enum{Allowed: []string{"OneButton", "TwoButton"}}
)

// Sync reconciles every declared preference group. Each restartable
// subsystem (Dock, Safari, Finder) is relaunched at most once, after
// all of its writes, and only if at least one of them changed
// something. It reports whether any preference write occurred.
func Sync(r execute.Runner, cfg Config) (bool, error) {
	changed := false

	// Dock and Mission Control both live in the com.apple.dock domain;
	// one Dock relaunch covers both.
	dockChanged := false
	if cfg.Dock != nil {
		c, err := applyDock(r, *cfg.Dock)
		dockChanged = dockChanged || c
		if err != nil {
			return changed || dockChanged, err
		}
	}
	if cfg.MissionControl != nil {
		c, err := applyMissionControl(r, *cfg.MissionControl)
		dockChanged = dockChanged || c
		if err != nil {
			return changed || dockChanged, err
		}
	}
	changed = changed || dockChanged
	if dockChanged {
		if err := Restart(r, "Dock"); err != nil {
			return changed, err
		}
	}

	if cfg.Safari != nil {
		safariChanged, err := applySafari(r, *cfg.Safari)
		changed = changed || safariChanged
		if err != nil {
			return changed, err
		}
		if safariChanged {
			if err := Restart(r, "Safari"); err != nil {
				return changed, err
			}
		}
	}

	finderChanged := false
	if cfg.System != nil {
		c, finderWrites, err := applySystem(r, *cfg.System)
		changed = changed || c
		finderChanged = finderChanged || finderWrites
		if err != nil {
			return changed, err
		}
	}
	if cfg.Finder != nil {
		c, err := applyFinder(r, *cfg.Finder)
		changed = changed || c
		finderChanged = finderChanged || c
		if err != nil {
			return changed, err
		}
	}
	if finderChanged {
		if err := Restart(r, "Finder"); err != nil {
			return changed, err
		}
	}

	if cfg.MagicMouse != nil {
		c, err := applyMagicMouse(r, *cfg.MagicMouse)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	return changed, nil
}

func applyDock(r execute.Runner, dock Dock) (bool, error) {
	changed := false

	if dock.Orientation != nil {
		if _, err := orientationValues.Parse(*dock.Orientation); err != nil {
			return changed, errors.Newf(errors.ErrInvalidInput,
				"dock orientation must be one of %s, got %q",
				strings.Join(orientationValues.Allowed, ", "), *dock.Orientation)
		}
		c, err := defaults.Write[string](r, orientationValues, "com.apple.dock", "orientation", *dock.Orientation)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	if dock.Autohide != nil {
		c, err := defaults.Write[bool](r, defaults.Bool{}, "com.apple.dock", "autohide", *dock.Autohide)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	if dock.IconSize != nil {
		c, err := defaults.Write[int](r, defaults.Int{}, "com.apple.dock", "tilesize", *dock.IconSize)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	return changed, nil
}

func applyMissionControl(r execute.Runner, mc MissionControl) (bool, error) {
	if mc.MRUSpaces == nil {
		return false, nil
	}
	return defaults.Write[bool](r, defaults.Bool{}, "com.apple.dock", "mru-spaces", *mc.MRUSpaces)
}

func applySafari(r execute.Runner, safari Safari) (bool, error) {
	if safari.ShowFullURL == nil {
		return false, nil
	}
	return defaults.Write[bool](r, defaults.Bool{},
		"com.apple.Safari", "ShowFullURLInSmartSearchField", *safari.ShowFullURL)
}

// applySystem reports both whether anything was written and whether a
// write needs a Finder relaunch to take effect.
func applySystem(r execute.Runner, system System) (changed, finderWrites bool, err error) {
	if system.ShowFileExtensions != nil {
		c, err := defaults.Write[bool](r, defaults.Bool{},
			"NSGlobalDomain", "AppleShowAllExtensions", *system.ShowFileExtensions)
		changed = changed || c
		finderWrites = finderWrites || c
		if err != nil {
			return changed, finderWrites, err
		}
	}

	if system.NaturalScrolling != nil {
		// Takes effect at next login; no process to relaunch, so this
		// write does not feed the Finder restart decision.
		c, err := defaults.Write[bool](r, defaults.Bool{},
			"NSGlobalDomain", "com.apple.swipescrolldirection", *system.NaturalScrolling)
		changed = changed || c
		if err != nil {
			return changed, finderWrites, err
		}
	}

	return changed, finderWrites, nil
}

func applyMagicMouse(r execute.Runner, mouse MagicMouse) (bool, error) {
	if mouse.ButtonMode == nil {
		return false, nil
	}
	if _, err := buttonModeValues.Parse(*mouse.ButtonMode); err != nil {
		return false, errors.Newf(errors.ErrInvalidInput,
			"magic mouse button-mode must be one of %s, got %q",
			strings.Join(buttonModeValues.Allowed, ", "), *mouse.ButtonMode)
	}
	return defaults.Write[string](r, buttonModeValues,
		"com.apple.AppleMultitouchMouse", "MouseButtonMode", *mouse.ButtonMode)
}

func applyFinder(r execute.Runner, finder Finder) (bool, error) {
	changed := false

	if finder.ShowPathbar != nil {
		c, err := defaults.Write[bool](r, defaults.Bool{}, "com.apple.finder", "ShowPathbar", *finder.ShowPathbar)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	if finder.ShowStatusBar != nil {
		c, err := defaults.Write[bool](r, defaults.Bool{}, "com.apple.finder", "ShowStatusBar", *finder.ShowStatusBar)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}

	return changed, nil
}

// Restart terminates the named process so launchd relaunches it with
// the new settings. Best-effort in the sense that it is never retried;
// a failure is still surfaced.
func Restart(r execute.Runner, process string) error {
	logger := logging.GetLogger("macos")
	logger.Info().Str("process", process).Msg("Restarting process to apply changes")

	result, err := r.Run("killall", process)
	if err != nil {
		return errors.Wrapf(err, errors.ErrWriteFailed, "killall %s", process)
	}
	if !result.Success() {
		return errors.Newf(errors.ErrWriteFailed,
			"killall %s exited with status %d: %s",
			process, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}
