// Package typer delivers transcript text as synthesized keystrokes to
// whatever window holds input focus.
package typer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// Typer emits text as simulated keyboard input.
type Typer interface {
	Type(ctx context.Context, text string) error
}

// New selects a keystroke backend.
func New(cfg config.TyperConfig) (Typer, error) {
	switch cfg.Mode {
	case "exec":
		return NewExecTyper(cfg.Command, cfg.DelayMS)
	case "clipboard":
		return NewClipboardTyper()
	case "mock":
		return NewMockTyper(), nil
	default:
		return nil, fmt.Errorf("unknown typer mode %q", cfg.Mode)
	}
}

// Sanitize flattens embedded line breaks to spaces so the synthesized
// keystrokes form one continuous line. Idempotent and total.
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, text)
}
