// Package mediator asks the user for input and shows them messages.
//
// Two input backends exist (the rofi picker and the terminal) and two
// output backends (desktop notifications and the terminal). New picks
// one of each once, preferring the graphical ones when they are
// available and plain mode is not forced.
package mediator

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/common"
)

// Urgency is the severity of a notification.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// level returns the freedesktop urgency hint value.
func (u Urgency) level() byte {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyCritical:
		return 2
	default:
		return 1
	}
}

// Notification is a message for the user.
// Summary defaults to the application name and Urgency to UrgencyNormal.
type Notification struct {
	Body    string
	Summary string
	Urgency Urgency
}

// Input reads values from the user.
type Input interface {
	// Secret reads a value without echoing it.
	Secret(ctx context.Context, prompt string) (string, error)
	// Text reads a plain value.
	Text(ctx context.Context, prompt string) (string, error)
	// Selection lets the user pick one of items.
	Selection(ctx context.Context, prompt string, items []string) (string, error)
}

// Output shows messages to the user.
type Output interface {
	Show(ctx context.Context, n Notification) error
}

// Mediator pairs the chosen input and output backends.
type Mediator struct {
	Input
	Output
}

// Backend probes, replaced in tests.
var (
	lookPath     = exec.LookPath
	findNotifier = sessionNotifier
)

// New selects the backends. With forcePlain, or when rofi or a
// notification service is missing, the terminal is used instead.
func New(forcePlain bool, runner command.Runner) *Mediator {
	m := &Mediator{
		Input:  NewTerminalInput(os.Stdin, os.Stdout),
		Output: NewTerminalOutput(os.Stdout),
	}
	if forcePlain {
		common.LogDebug("Using terminal input and output")
		return m
	}

	if _, err := lookPath(common.PickerBinary); err == nil {
		m.Input = NewRofiInput(runner)
		common.LogDebug("Using %s for input", common.PickerBinary)
	}

	if obj, ok := findNotifier(); ok {
		m.Output = NewDesktopOutput(obj, appName())
		common.LogDebug("Using desktop notifications for output")
	}

	return m
}

func appName() string {
	if len(os.Args) == 0 {
		return common.AppName
	}
	return filepath.Base(os.Args[0])
}
