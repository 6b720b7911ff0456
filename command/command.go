// Package command runs the external binaries bitvpn drives.
// Every invocation is synchronous: one process is started, fed its
// optional stdin, and waited for before the call returns.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yllada/bitvpn/common"
)

// Result is the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandError is returned when a process exits non-zero, cannot be
// started, or is interrupted by its context.
type CommandError struct {
	Args     []string
	Stderr   string
	Stdout   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	name := ""
	if len(e.Args) > 0 {
		name = e.Args[0]
	}

	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "command returned a non-zero code"
	}

	return fmt.Sprintf("%s exited with code %d: %s", name, e.ExitCode, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner starts a process and waits for it.
// args[0] is the binary, stdin is written to the process when non-empty.
type Runner interface {
	Run(ctx context.Context, args []string, stdin string) (*Result, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, stdin string) (*Result, error) {
	if len(args) == 0 {
		return nil, &CommandError{ExitCode: -1, Err: errors.New("empty command")}
	}

	common.LogDebug("Running %s", strings.Join(redact(args), " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	result := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	cmdErr := &CommandError{
		Args:     args,
		Stderr:   result.Stderr,
		Stdout:   result.Stdout,
		ExitCode: result.ExitCode,
		Err:      err,
	}
	common.LogDebug("%s failed: %v", args[0], cmdErr)
	return result, cmdErr
}

// Output runs args and returns its stdout without the trailing newline.
func Output(ctx context.Context, r Runner, args []string, stdin string) (string, error) {
	result, err := r.Run(ctx, args, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(result.Stdout, "\r\n"), nil
}

// ReturnCode runs args and returns its exit code.
// A non-zero exit is still reported as an error; callers probing a
// boolean condition recover from it themselves.
func ReturnCode(ctx context.Context, r Runner, args []string, stdin string) (int, error) {
	result, err := r.Run(ctx, args, stdin)
	if err != nil {
		code := -1
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			code = cmdErr.ExitCode
		}
		return code, err
	}
	return result.ExitCode, nil
}

// redact hides the arguments that follow credential-bearing words so
// they never reach the log.
func redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 1; i < len(out); i++ {
		switch out[i-1] {
		case "--session", "--code", "unlock":
			out[i] = "****"
		}
	}
	// bw login <email> <password>
	for i := 0; i+2 < len(out); i++ {
		if out[i] == "login" && out[i+1] != "--check" {
			out[i+2] = "****"
		}
	}
	return out
}
