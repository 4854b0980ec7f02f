package types

import "io/fs"

// FS is the filesystem surface the symlink reconciler needs. Injectable
// so reconcilers can be tested without touching the real filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error

	// Lstat does not follow symlinks, which is what link-state
	// classification depends on
	Lstat(name string) (fs.FileInfo, error)
}
