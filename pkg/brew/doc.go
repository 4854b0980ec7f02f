// Package brew reconciles Homebrew formulae and casks.
package brew
