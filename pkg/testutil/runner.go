package testutil

import (
	"fmt"
	"strings"

	"github.com/TheGhostHuCodes/omiros/pkg/execute"
)

// FakeRunner is a scripted execute.Runner for tests. Commands are keyed
// by their full command line ("brew leaves", "defaults read com.apple.dock
// autohide"). Unscripted commands succeed with empty output, so tests
// only script what they care about. Every invocation is recorded.
type FakeRunner struct {
	results  map[string]execute.Result
	runErrs  map[string]error
	missing  map[string]bool
	Commands []string
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		results: make(map[string]execute.Result),
		runErrs: make(map[string]error),
		missing: make(map[string]bool),
	}
}

// Respond scripts the result for one exact command line.
func (f *FakeRunner) Respond(commandLine string, result execute.Result) {
	f.results[commandLine] = result
}

// RespondStdout scripts a successful run with the given stdout.
func (f *FakeRunner) RespondStdout(commandLine, stdout string) {
	f.results[commandLine] = execute.Result{Stdout: stdout}
}

// RespondExit scripts a run that exits with the given status.
func (f *FakeRunner) RespondExit(commandLine string, exitCode int) {
	f.results[commandLine] = execute.Result{ExitCode: exitCode}
}

// FailToStart scripts a command that cannot be started at all.
func (f *FakeRunner) FailToStart(commandLine string, err error) {
	f.runErrs[commandLine] = err
}

// MarkMissing makes LookPath fail for the given executable.
func (f *FakeRunner) MarkMissing(name string) {
	f.missing[name] = true
}

// Run implements execute.Runner.
func (f *FakeRunner) Run(name string, args ...string) (execute.Result, error) {
	line := commandLine(name, args)
	f.Commands = append(f.Commands, line)

	if err, ok := f.runErrs[line]; ok {
		return execute.Result{}, err
	}
	return f.results[line], nil
}

// LookPath implements execute.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/local/bin/" + name, nil
}

// Ran reports whether the exact command line was invoked.
func (f *FakeRunner) Ran(commandLine string) bool {
	for _, line := range f.Commands {
		if line == commandLine {
			return true
		}
	}
	return false
}

// RanCount returns how many times the exact command line was invoked.
func (f *FakeRunner) RanCount(commandLine string) int {
	count := 0
	for _, line := range f.Commands {
		if line == commandLine {
			count++
		}
	}
	return count
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
