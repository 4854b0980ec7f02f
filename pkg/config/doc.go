// Package config loads the system.toml desired-state declaration.
package config
