// Package mas reconciles Mac App Store applications through the mas
// command line tool.
package mas
