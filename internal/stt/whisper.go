package stt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// whisperRecognizer runs inference in-process through the whisper.cpp Go
// bindings. The model handle is loaded once and shared read-only; the mutex
// keeps inference serial.
type whisperRecognizer struct {
	model   whisper.Model
	threads int
	log     *slog.Logger
	mu      sync.Mutex
}

// ModelPath resolves a variant name to its ggml model file.
func ModelPath(dir, variant string) string {
	return filepath.Join(dir, fmt.Sprintf("ggml-%s.bin", variant))
}

func NewWhisperRecognizer(cfg config.ModelConfig, log *slog.Logger) (Recognizer, error) {
	path := ModelPath(cfg.Dir, cfg.Variant)
	log.Info("loading whisper model", slog.String("variant", cfg.Variant), slog.String("path", path))

	start := time.Now()
	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %q: %w", path, err)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log.Info("whisper model loaded",
		slog.String("variant", cfg.Variant),
		slog.Int("threads", threads),
		slog.Duration("elapsed", time.Since(start)))

	return &whisperRecognizer{model: model, threads: threads, log: log}, nil
}

func (r *whisperRecognizer) Transcribe(ctx context.Context, wavPath string, language string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	samples, err := ReadWAVFloat32(wavPath)
	if err != nil {
		return Result{}, err
	}

	wctx, err := r.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("whisper context: %w", err)
	}
	wctx.SetThreads(uint(r.threads))
	if language != "" {
		if err := wctx.SetLanguage(language); err != nil {
			return Result{}, fmt.Errorf("set language %q: %w", language, err)
		}
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("whisper process: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("whisper segment: %w", err)
		}
		parts = append(parts, segment.Text)
	}

	return Result{Text: strings.TrimSpace(strings.Join(parts, " "))}, nil
}

func (r *whisperRecognizer) Close() error {
	if r.model != nil {
		return r.model.Close()
	}
	return nil
}
