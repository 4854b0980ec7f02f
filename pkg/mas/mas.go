package mas

import (
	"regexp"
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
	"github.com/TheGhostHuCodes/omiros/pkg/reconcile"
)

const program = "mas"

// App is one desired Mac App Store application. The numeric store id is
// the identity; the name is only for configuration readability and
// logging.
type App struct {
	Name string `koanf:"name"`
	ID   string `koanf:"id"`
}

// Config is the [mas] section of system.toml.
type Config struct {
	Apps []App `koanf:"apps"`
}

// Record is one parsed line of mas list output.
type Record struct {
	ID      string
	Name    string
	Version string
}

// mas list lines look like
//
//	1352211125  Tide Alert (NOAA) - Tide Chart  (3.2)
//
// The id is the leading digit run and the version is the parenthesized
// token anchored to the end of the line. Everything between is the app
// name, which may itself contain whitespace, parentheses and non-ASCII
// symbols; the greedy middle group plus the end anchor is what keeps
// internal parentheses inside the name. mas pads the name column, so
// the captured name still needs its surrounding whitespace stripped.
var listLine = regexp.MustCompile(`^(\d+)\s+(.+)\s+\(([^()]*)\)$`)

// ParseListLine parses one line of mas list output. A line that does
// not match the expected shape is a hard error; there is no best-effort
// partial parse.
func ParseListLine(line string) (Record, error) {
	m := listLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Record{}, errors.Newf(errors.ErrParseFailed,
			"unparseable mas list line: %q", line)
	}
	return Record{ID: m[1], Name: strings.TrimSpace(m[2]), Version: m[3]}, nil
}

// CheckInstalled verifies the mas CLI is on PATH.
func CheckInstalled(r execute.Runner) error {
	if _, err := r.LookPath(program); err != nil {
		return errors.Wrap(err, errors.ErrPreconditionNotFound, "mas not found")
	}
	return nil
}

// InstalledIDs queries the set of installed app store ids via mas list.
// A single malformed line fails the whole query.
func InstalledIDs(r execute.Runner) (map[string]struct{}, error) {
	result, err := r.Run(program, "list")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrQueryFailed, "mas list")
	}
	if !result.Success() {
		return nil, errors.Newf(errors.ErrQueryFailed,
			"mas list exited with status %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	installed := make(map[string]struct{})
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := ParseListLine(line)
		if err != nil {
			return nil, err
		}
		installed[record.ID] = struct{}{}
	}
	return installed, nil
}

// Sync installs every desired app whose id is absent from the installed
// set, in declared order. It reports whether anything was installed.
func Sync(r execute.Runner, cfg Config) (bool, error) {
	logger := logging.GetLogger("mas")

	if err := CheckInstalled(r); err != nil {
		return false, err
	}

	names := make(map[string]string, len(cfg.Apps))
	desired := make([]string, len(cfg.Apps))
	for i, app := range cfg.Apps {
		desired[i] = app.ID
		names[app.ID] = app.Name
	}

	set := reconcile.Set[string]{
		Kind: "apps",
		Query: func() (map[string]struct{}, error) {
			return InstalledIDs(r)
		},
		Install: func(id string) error {
			logger.Info().Str("id", id).Str("name", names[id]).Msg("Installing app")

			result, err := r.Run(program, "install", id)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInstallFailed, "mas install %s", id)
			}
			if !result.Success() {
				return errors.Newf(errors.ErrInstallFailed,
					"mas install failed for %s (%s): %s",
					names[id], id, strings.TrimSpace(result.Stderr))
			}
			return nil
		},
	}

	return set.Sync(desired)
}
