package mediator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/yllada/bitvpn/common"
)

// TerminalInput prompts on a terminal.
type TerminalInput struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() ([]byte, error)

	prompt lipgloss.Style
	index  lipgloss.Style
	warn   lipgloss.Style
}

// NewTerminalInput reads from in and prompts on out. Secrets are read
// without echo when in is a terminal, as plain lines otherwise.
func NewTerminalInput(in io.Reader, out io.Writer) *TerminalInput {
	r := lipgloss.NewRenderer(out)
	t := &TerminalInput{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: r.NewStyle().Bold(true),
		index:  r.NewStyle().Foreground(lipgloss.Color("6")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		t.readPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}

	return t
}

// Secret implements Input.
func (t *TerminalInput) Secret(ctx context.Context, prompt string) (string, error) {
	if t.readPassword == nil {
		return t.Text(ctx, prompt)
	}

	t.printPrompt(prompt)
	secret, err := t.readPassword()
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMediator, err)
	}
	return string(secret), nil
}

// Text implements Input.
func (t *TerminalInput) Text(_ context.Context, prompt string) (string, error) {
	t.printPrompt(prompt)
	return t.readLine()
}

// Selection implements Input. Items are numbered from 1 and the prompt
// is repeated until a valid number is entered.
func (t *TerminalInput) Selection(ctx context.Context, prompt string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w: nothing to select", common.ErrMediator)
	}

	for i, item := range items {
		fmt.Fprintf(t.out, "%s %s\n", t.index.Render(fmt.Sprintf("%d.", i+1)), item)
	}

	for {
		answer, err := t.Text(ctx, prompt)
		if err != nil {
			return "", err
		}

		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= 1 && n <= len(items) {
			return items[n-1], nil
		}

		fmt.Fprintln(t.out, t.warn.Render("Please, select a valid index"))
	}
}

func (t *TerminalInput) printPrompt(prompt string) {
	fmt.Fprintf(t.out, "%s: ", t.prompt.Render(prompt))
}

func (t *TerminalInput) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: %v", common.ErrMediator, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalOutput prints messages.
type TerminalOutput struct {
	out      io.Writer
	critical lipgloss.Style
}

// NewTerminalOutput prints on out.
func NewTerminalOutput(out io.Writer) *TerminalOutput {
	return &TerminalOutput{
		out:      out,
		critical: lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Show implements Output. Only the body is printed.
func (t *TerminalOutput) Show(_ context.Context, n Notification) error {
	body := n.Body
	if n.Urgency == UrgencyCritical {
		body = t.critical.Render(body)
	}
	_, err := fmt.Fprintln(t.out, body)
	return err
}
