package typer

import (
	"context"
	"testing"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

func TestSanitizeReplacesLineBreaks(t *testing.T) {
	got := Sanitize("hello\nworld\r\nagain")
	want := "hello world  again"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"", "plain", "a\nb", "\r\n\r\n", "tab\tkept\n"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("sanitize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestSanitizeLeavesOtherRunes(t *testing.T) {
	in := "héllo, wörld! \t 123"
	if got := Sanitize(in); got != in {
		t.Fatalf("expected %q unchanged, got %q", in, got)
	}
}

func TestMockTyperRecordsSanitized(t *testing.T) {
	m := NewMockTyper()
	if err := m.Type(context.Background(), "one\ntwo "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := m.Calls()
	if len(calls) != 1 || calls[0] != "one two " {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(config.TyperConfig{Mode: "telepathy"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewExecTyperRejectsEmptyCommand(t *testing.T) {
	if _, err := NewExecTyper("", 1); err == nil {
		t.Fatal("expected error for empty command")
	}
}
