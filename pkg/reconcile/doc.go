// Package reconcile implements the generic desired-versus-actual diff
// used by every set-shaped resource kind in omiros (packages, casks,
// apps, extensions).
package reconcile
