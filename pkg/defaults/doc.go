// Package defaults is the idempotent scalar writer over the macOS
// defaults command: read, compare on the typed value, write only on
// divergence, report whether a write happened.
package defaults
