package defaults

import (
	"strconv"
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/execute"
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
)

// Tag owns the parse and serialize rules for one preference value kind.
// The defaults command encodes values inconsistently ("1" versus
// "true"), so comparison always happens on the typed representation,
// never on raw text. Adding a new value kind means adding a Tag
// implementation; the read-compare-write control flow never changes.
type Tag[T comparable] interface {
	// Flag is the type flag passed to defaults write, e.g. "-bool".
	Flag() string

	// Parse decodes the trimmed output of defaults read.
	Parse(s string) (T, error)

	// Format encodes a value for defaults write.
	Format(v T) string
}

// Bool is the tag for boolean preferences. defaults read reports
// booleans as "0"/"1" and occasionally "true"/"false"; both are
// accepted, case-insensitively. Writes use canonical lowercase.
type Bool struct{}

func (Bool) Flag() string { return "-bool" }

func (Bool) Parse(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, errors.Newf(errors.ErrParseFailed, "unable to parse %q as -bool", s)
}

func (Bool) Format(v bool) string {
	return strconv.FormatBool(v)
}

// Int is the tag for integer preferences.
type Int struct{}

func (Int) Flag() string { return "-int" }

func (Int) Parse(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Newf(errors.ErrParseFailed, "unable to parse %q as -int", s)
	}
	return v, nil
}

func (Int) Format(v int) string {
	return strconv.Itoa(v)
}

// Enum is the tag for string preferences with a closed vocabulary, such
// as the dock orientation (left, bottom, right). A stored value outside
// the vocabulary is a parse failure, not a silent pass-through.
type Enum struct {
	Allowed []string
}

func (Enum) Flag() string { return "-string" }

func (e Enum) Parse(s string) (string, error) {
	for _, allowed := range e.Allowed {
		if s == allowed {
			return s, nil
		}
	}
	return "", errors.Newf(errors.ErrParseFailed,
		"value %q is not one of %s", s, strings.Join(e.Allowed, ", "))
}

func (Enum) Format(v string) string {
	return v
}

// Read reads the stored value for domain/key. A read that fails because
// the key has never been set is reported through the unset flag, not as
// an error; a stored value that does not parse under the tag is a hard
// error.
func Read[T comparable](r execute.Runner, tag Tag[T], domain, key string) (value T, unset bool, err error) {
	var zero T

	result, runErr := r.Run("defaults", "read", domain, key)
	if runErr != nil {
		return zero, false, errors.Wrapf(runErr, errors.ErrQueryFailed,
			"defaults read %s %s", domain, key)
	}

	// defaults read exits non-zero when the key (or the whole domain)
	// has never been written
	if !result.Success() {
		return zero, true, nil
	}

	value, parseErr := tag.Parse(strings.TrimSpace(result.Stdout))
	if parseErr != nil {
		return zero, false, parseErr
	}

	return value, false, nil
}

// Write converges domain/key to desired: it reads the stored value and
// writes only on divergence, reporting whether a write occurred. An
// unset key always gets a write. Callers OR the returned flags of the
// writes belonging to one subsystem to decide on a single follow-up
// restart.
func Write[T comparable](r execute.Runner, tag Tag[T], domain, key string, desired T) (bool, error) {
	logger := logging.GetLogger("defaults")

	current, unset, err := Read(r, tag, domain, key)
	if err != nil {
		return false, err
	}

	if !unset && current == desired {
		logger.Debug().
			Str("domain", domain).
			Str("key", key).
			Str("value", tag.Format(desired)).
			Msg("Already set")
		return false, nil
	}

	logger.Info().
		Str("domain", domain).
		Str("key", key).
		Str("value", tag.Format(desired)).
		Str("type", tag.Flag()).
		Bool("wasUnset", unset).
		Msg("Writing preference")

	result, runErr := r.Run("defaults", "write", domain, key, tag.Flag(), tag.Format(desired))
	if runErr != nil {
		return false, errors.Wrapf(runErr, errors.ErrWriteFailed,
			"defaults write %s %s", domain, key)
	}
	if !result.Success() {
		return false, errors.Newf(errors.ErrWriteFailed,
			"defaults write failed for %s.%s: %s", domain, key, strings.TrimSpace(result.Stderr))
	}

	return true, nil
}
