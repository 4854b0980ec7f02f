// Package types contains the small shared interfaces used across
// omiros packages.
package types
