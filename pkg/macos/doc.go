// Package macos reconciles macOS preference values through the
// defaults command and relaunches the affected system processes when,
// and only when, something actually changed.
package macos
