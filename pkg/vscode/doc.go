// Package vscode reconciles VS Code extensions through the code
// command line tool.
package vscode
