package reconcile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissing(t *testing.T) {
	tests := []struct {
		name    string
		desired []string
		actual  map[string]struct{}
		want    []string
	}{
		{
			name:    "all missing preserves desired order",
			desired: []string{"ripgrep", "fd", "jq"},
			actual:  map[string]struct{}{},
			want:    []string{"ripgrep", "fd", "jq"},
		},
		{
			name:    "present identities are skipped",
			desired: []string{"ripgrep", "fd", "jq"},
			actual:  map[string]struct{}{"fd": {}},
			want:    []string{"ripgrep", "jq"},
		},
		{
			name:    "nothing missing",
			desired: []string{"ripgrep"},
			actual:  map[string]struct{}{"ripgrep": {}},
			want:    []string{},
		},
		{
			name:    "duplicate desired entries are not deduplicated",
			desired: []string{"ripgrep", "ripgrep", "fd"},
			actual:  map[string]struct{}{},
			want:    []string{"ripgrep", "ripgrep", "fd"},
		},
		{
			name:    "empty desired",
			desired: []string{},
			actual:  map[string]struct{}{"ripgrep": {}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Missing(tt.desired, tt.actual)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyncInstallsOnlyMissing(t *testing.T) {
	var installed []string
	set := Set[string]{
		Kind: "formulae",
		Query: func() (map[string]struct{}, error) {
			return map[string]struct{}{"fd": {}}, nil
		},
		Install: func(id string) error {
			installed = append(installed, id)
			return nil
		},
	}

	changed, err := set.Sync([]string{"ripgrep", "fd", "jq"})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, []string{"ripgrep", "jq"}, installed, "install order follows desired order")
}

func TestSyncIsIdempotent(t *testing.T) {
	installs := 0
	set := Set[string]{
		Kind: "formulae",
		Query: func() (map[string]struct{}, error) {
			return map[string]struct{}{"ripgrep": {}, "fd": {}}, nil
		},
		Install: func(id string) error {
			installs++
			return nil
		},
	}

	changed, err := set.Sync([]string{"ripgrep", "fd"})
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Zero(t, installs, "no install should be invoked for present identities")
}

func TestSyncFailFast(t *testing.T) {
	var installed []string
	boom := errors.New("install failed")
	set := Set[string]{
		Kind: "formulae",
		Query: func() (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
		Install: func(id string) error {
			if id == "fd" {
				return boom
			}
			installed = append(installed, id)
			return nil
		},
	}

	changed, err := set.Sync([]string{"ripgrep", "fd", "jq"})
	require.ErrorIs(t, err, boom)

	assert.True(t, changed, "the install before the failure did happen")
	assert.Equal(t, []string{"ripgrep"}, installed, "installs after the failure are aborted")
}

func TestSyncQueryErrorAbortsBeforeInstalls(t *testing.T) {
	boom := errors.New("query failed")
	installs := 0
	set := Set[string]{
		Kind: "formulae",
		Query: func() (map[string]struct{}, error) {
			return nil, boom
		},
		Install: func(id string) error {
			installs++
			return nil
		},
	}

	changed, err := set.Sync([]string{"ripgrep"})
	require.ErrorIs(t, err, boom)

	assert.False(t, changed)
	assert.Zero(t, installs)
}

func TestSyncNormalizeMatchesCaseInsensitively(t *testing.T) {
	var installed []string
	set := Set[string]{
		Kind: "extensions",
		Query: func() (map[string]struct{}, error) {
			// The query tool reports identifiers lower-cased.
			return map[string]struct{}{"foo.bar": {}}, nil
		},
		Install: func(id string) error {
			installed = append(installed, id)
			return nil
		},
		Normalize: strings.ToLower,
	}

	changed, err := set.Sync([]string{"Foo.Bar", "Baz.Qux"})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, []string{"Baz.Qux"}, installed,
		"present identity matched case-insensitively; install keeps declared case")
}

func TestSyncDuplicateDesiredEachInstall(t *testing.T) {
	installs := 0
	set := Set[string]{
		Kind: "formulae",
		Query: func() (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
		Install: func(id string) error {
			installs++
			return nil
		},
	}

	changed, err := set.Sync([]string{"ripgrep", "ripgrep"})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 2, installs, "each duplicate desired entry attempts its own install")
}
