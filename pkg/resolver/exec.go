package resolver

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/observability"
)

// Runner runs external commands.
type Runner interface {
	// LookPath finds an executable in PATH.
	LookPath(name string) (string, error)
	// Run executes name with args and returns its standard output. A non-zero
	// exit is a COMMAND_FAILED error carrying the trimmed standard error.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
}

// LookPath implements Runner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	hooks := observability.Command()
	hooks.OnCommandStart(ctx, name, args)
	start := time.Now()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = commandError(name, args, err, stderr.String())
		}
	}
	hooks.OnCommandComplete(ctx, name, args, time.Since(start), err)
	if err != nil {
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

func commandError(name string, args []string, cause error, stderr string) error {
	line := strings.TrimSpace(strings.Join(append([]string{name}, args...), " "))
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return errors.Wrap(errors.ErrCodeCommandFailed, cause, "%s", line)
	}
	return errors.Wrap(errors.ErrCodeCommandFailed, cause, "%s: %s", line, msg)
}
