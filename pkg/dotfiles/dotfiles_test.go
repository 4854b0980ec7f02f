package dotfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/filesystem"
	"github.com/TheGhostHuCodes/omiros/pkg/testutil"
	"github.com/TheGhostHuCodes/omiros/pkg/types"
)

// recordingFS counts mutating operations so tests can assert on exactly
// which repairs ran.
type recordingFS struct {
	types.FS
	removes  int
	symlinks int
}

func (r *recordingFS) Remove(name string) error {
	r.removes++
	return r.FS.Remove(name)
}

func (r *recordingFS) Symlink(oldname, newname string) error {
	r.symlinks++
	return r.FS.Symlink(oldname, newname)
}

func newRecordingFS() *recordingFS {
	return &recordingFS{FS: filesystem.NewOS()}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"leading tilde segment", "~/.config/thing", "/home/user/.config/thing"},
		{"bare tilde", "~", "/home/user"},
		{"absolute path untouched", "/etc/thing", "/etc/thing"},
		{"inner tilde untouched", "/data/~/thing", "/data/~/thing"},
		{"tilde prefix without separator untouched", "~user/thing", "~user/thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.path, "/home/user"))
		})
	}
}

func TestReconcileAbsentCreatesLink(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "vimrc", "set number\n")

	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	changed, err := Reconcile(Options{FS: filesystem.NewOS(), Root: root, Home: home}, cfg)
	require.NoError(t, err)

	assert.True(t, changed)
	target, err := os.Readlink(filepath.Join(home, ".vimrc"))
	require.NoError(t, err)
	assert.Equal(t, source, target)
}

func TestReconcileCorrectLinkIsNoOp(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "vimrc", "set number\n")
	testutil.CreateSymlink(t, source, filepath.Join(home, ".vimrc"))

	fsys := newRecordingFS()
	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	changed, err := Reconcile(Options{FS: fsys, Root: root, Home: home}, cfg)
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Zero(t, fsys.removes, "a correct link must not be touched")
	assert.Zero(t, fsys.symlinks)
}

func TestReconcileWrongLinkIsReplaced(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "vimrc", "set number\n")
	other := testutil.CreateFile(t, root, "other", "other\n")
	testutil.CreateSymlink(t, other, filepath.Join(home, ".vimrc"))

	fsys := newRecordingFS()
	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	changed, err := Reconcile(Options{FS: fsys, Root: root, Home: home}, cfg)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 1, fsys.removes, "exactly one remove")
	assert.Equal(t, 1, fsys.symlinks, "exactly one create")

	target, err := os.Readlink(filepath.Join(home, ".vimrc"))
	require.NoError(t, err)
	assert.Equal(t, source, target)
}

func TestReconcileBrokenLinkIsReplaced(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "vimrc", "set number\n")
	testutil.CreateSymlink(t, filepath.Join(root, "never-existed"), filepath.Join(home, ".vimrc"))

	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	changed, err := Reconcile(Options{FS: filesystem.NewOS(), Root: root, Home: home}, cfg)
	require.NoError(t, err)

	assert.True(t, changed)
	target, err := os.Readlink(filepath.Join(home, ".vimrc"))
	require.NoError(t, err)
	assert.Equal(t, source, target)
}

func TestReconcileOccupiedFailsAndLeavesFile(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, root, "vimrc", "set number\n")
	occupied := testutil.CreateFile(t, home, ".vimrc", "precious local edits\n")

	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	changed, err := Reconcile(Options{FS: filesystem.NewOS(), Root: root, Home: home}, cfg)
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystemConflict))
	assert.False(t, changed)

	content, readErr := os.ReadFile(occupied)
	require.NoError(t, readErr)
	assert.Equal(t, "precious local edits\n", string(content), "occupied file must be untouched")
}

func TestReconcileMissingSourceFailsRun(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, root, "vimrc", "set number\n")

	// First entry's source is missing; the valid second entry must not
	// be processed.
	cfg := Config{Files: []Entry{
		{Original: "no-such-file", Link: "~/.missing"},
		{Original: "vimrc", Link: "~/.vimrc"},
	}}

	changed, err := Reconcile(Options{FS: filesystem.NewOS(), Root: root, Home: home}, cfg)
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotFound))
	assert.False(t, changed)
	assert.NoFileExists(t, filepath.Join(home, ".vimrc"))
}

func TestReconcileMissingRootFails(t *testing.T) {
	home := t.TempDir()

	cfg := Config{Files: []Entry{{Original: "vimrc", Link: "~/.vimrc"}}}

	_, err := Reconcile(Options{
		FS:   filesystem.NewOS(),
		Root: filepath.Join(home, "no-such-dotfiles-dir"),
		Home: home,
	}, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPreconditionNotFound))
}

func TestReconcileCreatesParentDirectories(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "nvim/init.lua", "-- init\n")

	cfg := Config{Files: []Entry{{Original: "nvim/init.lua", Link: "~/.config/nvim/init.lua"}}}

	changed, err := Reconcile(Options{FS: filesystem.NewOS(), Root: root, Home: home}, cfg)
	require.NoError(t, err)

	assert.True(t, changed)
	target, err := os.Readlink(filepath.Join(home, ".config", "nvim", "init.lua"))
	require.NoError(t, err)
	assert.Equal(t, source, target)
}

func TestReconcileIsIdempotent(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, root, "vimrc", "set number\n")
	testutil.CreateFile(t, root, "nvim/init.lua", "-- init\n")

	cfg := Config{Files: []Entry{
		{Original: "vimrc", Link: "~/.vimrc"},
		{Original: "nvim/init.lua", Link: "~/.config/nvim/init.lua"},
	}}

	opts := Options{FS: filesystem.NewOS(), Root: root, Home: home}

	changed, err := Reconcile(opts, cfg)
	require.NoError(t, err)
	require.True(t, changed)

	fsys := newRecordingFS()
	opts.FS = fsys
	changed, err = Reconcile(opts, cfg)
	require.NoError(t, err)

	assert.False(t, changed, "second run against converged state must report unchanged")
	assert.Zero(t, fsys.removes)
	assert.Zero(t, fsys.symlinks)
}

func TestClassify(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	source := testutil.CreateFile(t, root, "vimrc", "set number\n")
	other := testutil.CreateFile(t, root, "other", "other\n")

	fsys := filesystem.NewOS()

	t.Run("absent", func(t *testing.T) {
		state, err := Classify(fsys, filepath.Join(home, "absent"), source)
		require.NoError(t, err)
		assert.Equal(t, StateAbsent, state)
	})

	t.Run("correct", func(t *testing.T) {
		link := filepath.Join(home, "correct")
		testutil.CreateSymlink(t, source, link)
		state, err := Classify(fsys, link, source)
		require.NoError(t, err)
		assert.Equal(t, StateCorrect, state)
	})

	t.Run("wrong", func(t *testing.T) {
		link := filepath.Join(home, "wrong")
		testutil.CreateSymlink(t, other, link)
		state, err := Classify(fsys, link, source)
		require.NoError(t, err)
		assert.Equal(t, StateWrong, state)
	})

	t.Run("broken", func(t *testing.T) {
		link := filepath.Join(home, "broken")
		testutil.CreateSymlink(t, filepath.Join(root, "gone"), link)
		state, err := Classify(fsys, link, source)
		require.NoError(t, err)
		assert.Equal(t, StateBroken, state)
	})

	t.Run("occupied by file", func(t *testing.T) {
		occupied := testutil.CreateFile(t, home, "occupied", "data")
		state, err := Classify(fsys, occupied, source)
		require.NoError(t, err)
		assert.Equal(t, StateOccupied, state)
	})

	t.Run("occupied by directory", func(t *testing.T) {
		dir := testutil.CreateDir(t, home, "occupied-dir")
		state, err := Classify(fsys, dir, source)
		require.NoError(t, err)
		assert.Equal(t, StateOccupied, state)
	})
}
