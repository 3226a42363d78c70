package typer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// clipboardTyper pastes text through the system clipboard with a simulated
// Ctrl+V, restoring the previous clipboard contents afterwards. Useful where
// no typing command is available.
type clipboardTyper struct {
	kb keybd_event.KeyBonding
	mu sync.Mutex
}

func NewClipboardTyper() (Typer, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("init key bonding: %w", err)
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return &clipboardTyper{kb: kb}, nil
}

func (t *clipboardTyper) Type(ctx context.Context, text string) error {
	text = Sanitize(text)
	if text == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	previous, err := clipboard.ReadAll()
	if err != nil {
		previous = ""
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	if err := t.kb.Launching(); err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}

	// Give the focused application time to read the clipboard before we
	// restore it.
	select {
	case <-time.After(150 * time.Millisecond):
	case <-ctx.Done():
	}
	if previous != "" {
		_ = clipboard.WriteAll(previous)
	}
	return nil
}
