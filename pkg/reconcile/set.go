package reconcile

import (
	"github.com/TheGhostHuCodes/omiros/pkg/logging"
)

// Missing returns every desired identity that is absent from actual, in
// desired order. Duplicate desired entries are not deduplicated: if a
// missing identity is declared twice it appears twice, and installing
// it twice is the caller's (harmless) problem.
func Missing[ID comparable](desired []ID, actual map[ID]struct{}) []ID {
	return missingNormalized(desired, actual, nil)
}

// missingNormalized is Missing with an optional identity normalization
// applied for the membership test only; the returned identities keep
// their declared form.
func missingNormalized[ID comparable](desired []ID, actual map[ID]struct{}, normalize func(ID) ID) []ID {
	missing := make([]ID, 0, len(desired))
	for _, id := range desired {
		key := id
		if normalize != nil {
			key = normalize(id)
		}
		if _, ok := actual[key]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Set describes one reconcilable resource kind: how to query the set of
// identities currently present on the system and how to install a
// single absent one. The diff algorithm itself is shared; packages,
// casks, apps and extensions only differ in these two capabilities.
type Set[ID comparable] struct {
	// Kind names the resource kind in logs.
	Kind string

	// Query returns the actual set, freshly read from the live system.
	Query func() (map[ID]struct{}, error)

	// Install installs one missing identity. A returned error aborts
	// the remaining installs.
	Install func(id ID) error

	// Normalize, if set, maps an identity to the form used for
	// membership tests against the actual set. Install still receives
	// the identity exactly as declared. Used for tools that report
	// identifiers in a different case than they accept them.
	Normalize func(id ID) ID
}

// Sync brings the resource kind in line with desired: every desired
// identity absent from the actual set is installed, in declared order,
// fail-fast. It reports whether any install was performed. The actual
// set is fully read before the first install.
func (s Set[ID]) Sync(desired []ID) (bool, error) {
	logger := logging.GetLogger("reconcile")

	actual, err := s.Query()
	if err != nil {
		return false, err
	}

	changed := false
	for _, id := range missingNormalized(desired, actual, s.Normalize) {
		logger.Info().
			Str("kind", s.Kind).
			Interface("id", id).
			Msg("Installing missing identity")

		if err := s.Install(id); err != nil {
			return changed, err
		}
		changed = true
	}

	if !changed {
		logger.Debug().
			Str("kind", s.Kind).
			Int("desired", len(desired)).
			Msg("Nothing missing")
	}

	return changed, nil
}
