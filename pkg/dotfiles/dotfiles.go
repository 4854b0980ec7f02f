package dotfiles

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
	"github.com/TheGhostHuCodes/omiros/pkg/types"
)

// Entry is one dotfile to link: a source path relative to the dotfiles
// root and the path where the symlink lives. Config supports two forms:
// a bare string (the link mirrors the source path under home) and an
// explicit original/link table; both decode into this struct.
type Entry struct {
	Original string `koanf:"original"`
	Link     string `koanf:"link"`
}

// Config is the [dotfiles] section of system.toml.
type Config struct {
	Files []Entry `koanf:"files"`
}

// LinkState classifies what currently exists at a link path.
type LinkState int

const (
	// StateAbsent means nothing exists at the link path.
	StateAbsent LinkState = iota
	// StateCorrect means an existing symlink already points at the source.
	StateCorrect
	// StateWrong means an existing symlink points at some other existing path.
	StateWrong
	// StateBroken means an existing symlink's referent does not exist.
	StateBroken
	// StateOccupied means a regular file or directory sits at the link path.
	StateOccupied
)

func (s LinkState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateCorrect:
		return "correct"
	case StateWrong:
		return "wrong"
	case StateBroken:
		return "broken"
	case StateOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// ExpandHome replaces a leading ~ path segment with the home directory.
// Only the first segment is touched; a ~ anywhere else in the path is
// left alone. The shell normally does this expansion, but config values
// never pass through a shell.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Classify inspects the link path and reports its state relative to the
// expected source.
func Classify(fsys types.FS, link, source string) (LinkState, error) {
	info, err := fsys.Lstat(link)
	if err != nil {
		if os.IsNotExist(err) {
			return StateAbsent, nil
		}
		return StateAbsent, errors.Wrapf(err, errors.ErrQueryFailed, "lstat %s", link)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return StateOccupied, nil
	}

	target, err := fsys.Readlink(link)
	if err != nil {
		return StateAbsent, errors.Wrapf(err, errors.ErrQueryFailed, "readlink %s", link)
	}

	if target == source {
		return StateCorrect, nil
	}

	// Points elsewhere: wrong if the referent resolves, broken if not.
	referent := target
	if !filepath.IsAbs(referent) {
		referent = filepath.Join(filepath.Dir(link), referent)
	}
	if _, err := fsys.Stat(referent); err != nil {
		return StateBroken, nil
	}
	return StateWrong, nil
}

// Options holds the reconciliation inputs shared by all entries.
type Options struct {
	FS   types.FS
	Root string // dotfiles directory holding the real files
	Home string // home directory for ~ expansion and implicit links
}

// Reconcile converges every entry's link, in declared order, fail-fast:
// a failure on one entry aborts all following entries. A link path
// occupied by a real file or directory is never overwritten; it fails
// the run with instructions to remove it manually. Reports whether any
// link was created or replaced.
func Reconcile(opts Options, cfg Config) (bool, error) {
	logger := logging.GetLogger("dotfiles")

	if _, err := opts.FS.Stat(opts.Root); err != nil {
		return false, errors.Wrapf(err, errors.ErrPreconditionNotFound,
			"dotfiles directory not found: %s", opts.Root)
	}

	changed := false
	for _, entry := range cfg.Files {
		source := filepath.Join(opts.Root, entry.Original)
		link := ExpandHome(entry.Link, opts.Home)

		if _, err := opts.FS.Stat(source); err != nil {
			return changed, errors.Wrapf(err, errors.ErrSourceNotFound,
				"original dotfile not found: %s", source)
		}

		if err := opts.FS.MkdirAll(filepath.Dir(link), 0755); err != nil {
			return changed, errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create parent directory for %s", link)
		}

		state, err := Classify(opts.FS, link, source)
		if err != nil {
			return changed, err
		}

		logger.Debug().
			Str("source", source).
			Str("link", link).
			Str("state", state.String()).
			Msg("Classified link")

		switch state {
		case StateCorrect:
			continue

		case StateWrong, StateBroken:
			if err := opts.FS.Remove(link); err != nil {
				return changed, errors.Wrapf(err, errors.ErrSymlinkCreate,
					"failed to remove %s symlink %s", state, link)
			}
			logger.Info().Str("link", link).Str("state", state.String()).Msg("Removed stale symlink")

		case StateOccupied:
			return changed, errors.Newf(errors.ErrFilesystemConflict,
				"link path already exists as a file or directory: %s. "+
					"Back it up and remove it manually, then run omiros again", link)
		}

		if err := opts.FS.Symlink(source, link); err != nil {
			return changed, errors.Wrapf(err, errors.ErrSymlinkCreate,
				"failed to link %s -> %s", link, source)
		}

		logger.Info().Str("link", link).Str("source", source).Msg("Linked")
		changed = true
	}

	return changed, nil
}
