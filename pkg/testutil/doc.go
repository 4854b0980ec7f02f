// Package testutil provides test helpers for omiros: a scripted fake
// command runner and filesystem setup helpers.
package testutil
