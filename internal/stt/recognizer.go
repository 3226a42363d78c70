package stt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// Result captures recognizer output for one chunk.
type Result struct {
	Text string
}

// Recognizer abstracts speech-to-text backends. The interchange format is a
// mono 16-bit WAV file at the configured sample rate.
type Recognizer interface {
	Transcribe(ctx context.Context, wavPath string, language string) (Result, error)
	Close() error
}

// New selects a backend once at startup.
func New(cfg config.ModelConfig, log *slog.Logger) (Recognizer, error) {
	switch cfg.Mode {
	case "whispercpp":
		return NewWhisperRecognizer(cfg, log)
	case "exec":
		return NewExecRecognizer(cfg)
	case "mock":
		return NewMockRecognizer(), nil
	default:
		return nil, fmt.Errorf("unknown model mode %q", cfg.Mode)
	}
}
