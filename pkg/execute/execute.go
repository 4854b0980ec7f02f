package execute

import (
	"bytes"
	"errors"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/TheGhostHuCodes/omiros/pkg/logging"
)

// Result captures the observable outcome of one external command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs external commands. Providers query and mutate the live
// system exclusively through this interface so they can be tested
// against scripted outputs.
type Runner interface {
	// Run executes a command and waits for it to finish. A non-zero
	// exit status is not an error: it is reported through
	// Result.ExitCode and interpreted by the caller. The returned
	// error is reserved for commands that could not be started at
	// all.
	Run(name string, args ...string) (Result, error)

	// LookPath reports the absolute path of an executable on PATH,
	// or an error if it is not installed.
	LookPath(name string) (string, error)
}

// osRunner is the production Runner backed by os/exec.
type osRunner struct {
	logger zerolog.Logger
}

// NewRunner creates a Runner that invokes real system commands.
func NewRunner() Runner {
	return &osRunner{
		logger: logging.GetLogger("execute"),
	}
}

func (r *osRunner) Run(name string, args ...string) (Result, error) {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.logger.Error().
				Err(err).
				Str("command", name).
				Strs("args", args).
				Msg("Command could not be started")
			return Result{}, err
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.logger.Debug().
		Str("command", name).
		Strs("args", args).
		Int("exitCode", result.ExitCode).
		Msg("Command finished")

	return result, nil
}

func (r *osRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
