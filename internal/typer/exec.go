package typer

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/mattn/go-shellwords"
)

// execTyper shells out to an xdotool-style typing command:
// <command> type --delay <ms> -- <text>.
type execTyper struct {
	cmd     []string
	delayMS int
	mu      sync.Mutex
}

func NewExecTyper(command string, delayMS int) (Typer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse typer command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("typer command is empty")
	}
	return &execTyper{cmd: args, delayMS: delayMS}, nil
}

func (t *execTyper) Type(ctx context.Context, text string) error {
	text = Sanitize(text)
	if text == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	args := append([]string{}, t.cmd[1:]...)
	args = append(args, "type", "--delay", strconv.Itoa(t.delayMS), "--", text)
	command := exec.CommandContext(ctx, t.cmd[0], args...)
	if out, err := command.CombinedOutput(); err != nil {
		return fmt.Errorf("typer command failed: %w: %s", err, out)
	}
	return nil
}
