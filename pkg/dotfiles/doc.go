// Package dotfiles converges symlinks from a dotfiles directory into
// the home directory. Each link path is classified into one of five
// states (absent, correct, wrong, broken, occupied) and repaired
// accordingly; non-symlink content is never overwritten.
package dotfiles
