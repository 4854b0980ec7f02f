// Package execute runs external commands and captures their output and
// exit status. Every provider talks to the system through the Runner
// interface defined here; nothing else in omiros shells out directly.
package execute
