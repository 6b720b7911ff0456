package mediator

import (
	"context"
	"fmt"
	"strings"

	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/common"
)

var rofiCommand = []string{common.PickerBinary, "-no-fixed-num-lines", "-dmenu"}

// RofiInput prompts with the rofi dmenu picker.
type RofiInput struct {
	runner command.Runner
}

// NewRofiInput creates a RofiInput.
func NewRofiInput(runner command.Runner) *RofiInput {
	return &RofiInput{runner: runner}
}

func (r *RofiInput) run(ctx context.Context, stdin string, extra ...string) (string, error) {
	args := append(append([]string(nil), rofiCommand...), extra...)
	out, err := command.Output(ctx, r.runner, args, stdin)
	if err != nil {
		// rofi exits 1 when the picker is dismissed
		return "", fmt.Errorf("%w: %w", common.ErrMediator, err)
	}
	return strings.TrimSpace(out), nil
}

// Secret implements Input.
func (r *RofiInput) Secret(ctx context.Context, prompt string) (string, error) {
	return r.run(ctx, "", "-password", "-p", prompt)
}

// Text implements Input.
func (r *RofiInput) Text(ctx context.Context, prompt string) (string, error) {
	return r.run(ctx, "", "-p", prompt)
}

// Selection implements Input. The items are offered one per line.
func (r *RofiInput) Selection(ctx context.Context, prompt string, items []string) (string, error) {
	return r.run(ctx, strings.Join(items, "\n"), "-p", prompt)
}
