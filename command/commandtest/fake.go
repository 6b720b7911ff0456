// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"strings"

	"github.com/yllada/bitvpn/command"
)

// Call is one recorded invocation.
type Call struct {
	Args  []string
	Stdin string
}

// Line returns the invocation as a single space-separated string.
func (c Call) Line() string {
	return strings.Join(c.Args, " ")
}

// Response is what the fake answers for a given command line.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// FakeRunner answers commands from a table keyed by the full command line.
// Unknown command lines exit with code 127.
type FakeRunner struct {
	Calls     []Call
	responses map[string]Response
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On registers the response for args.
func (f *FakeRunner) On(resp Response, args ...string) *FakeRunner {
	f.responses[strings.Join(args, " ")] = resp
	return f
}

// Run implements command.Runner.
func (f *FakeRunner) Run(_ context.Context, args []string, stdin string) (*command.Result, error) {
	f.Calls = append(f.Calls, Call{Args: append([]string(nil), args...), Stdin: stdin})

	resp, ok := f.responses[strings.Join(args, " ")]
	if !ok {
		resp = Response{Stderr: "command not found", ExitCode: 127}
	}

	result := &command.Result{ExitCode: resp.ExitCode, Stdout: resp.Stdout, Stderr: resp.Stderr}
	if resp.ExitCode != 0 {
		return result, &command.CommandError{
			Args:     args,
			Stderr:   resp.Stderr,
			Stdout:   resp.Stdout,
			ExitCode: resp.ExitCode,
		}
	}
	return result, nil
}

// Lines returns every recorded invocation as a command line.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// CountPrefix counts the recorded invocations starting with prefix.
func (f *FakeRunner) CountPrefix(prefix string) int {
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Line(), prefix) {
			n++
		}
	}
	return n
}
