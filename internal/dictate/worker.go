// Package dictate runs the chunk accumulator: it drains the capture queue,
// groups frames into fixed-duration chunks, and pushes each transcript to
// the keystroke typer.
package dictate

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kr-Adarsh/whisper-dictate/internal/audio"
	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
	"github.com/Kr-Adarsh/whisper-dictate/internal/hotkey"
	"github.com/Kr-Adarsh/whisper-dictate/internal/journal"
	"github.com/Kr-Adarsh/whisper-dictate/internal/stt"
	"github.com/Kr-Adarsh/whisper-dictate/internal/typer"
)

// Worker owns the accumulation buffer. The running sample count always
// equals the concatenation of the held batches; both reset to zero after
// every transcription handoff.
type Worker struct {
	cfg        config.Config
	queue      *audio.FrameQueue
	stop       *hotkey.Stopper
	recognizer stt.Recognizer
	typer      typer.Typer
	journal    *journal.Journal
	sessionID  string
	log        *slog.Logger

	buffer  [][]byte
	samples int
	target  int

	done chan struct{}

	tracer     trace.Tracer
	chunks     metric.Int64Counter
	failures   metric.Int64Counter
	typedChars metric.Int64Counter
	inference  metric.Float64Histogram
}

func NewWorker(cfg config.Config, queue *audio.FrameQueue, stop *hotkey.Stopper,
	recognizer stt.Recognizer, keys typer.Typer, jrnl *journal.Journal,
	sessionID string, log *slog.Logger) *Worker {

	w := &Worker{
		cfg:        cfg,
		queue:      queue,
		stop:       stop,
		recognizer: recognizer,
		typer:      keys,
		journal:    jrnl,
		sessionID:  sessionID,
		log:        log.With(slog.String("component", "worker")),
		target:     cfg.TargetSamples(),
		done:       make(chan struct{}),
		tracer:     otel.Tracer("github.com/Kr-Adarsh/whisper-dictate/dictate"),
	}
	w.initMetrics()
	return w
}

func (w *Worker) initMetrics() {
	meter := otel.Meter("github.com/Kr-Adarsh/whisper-dictate/dictate")
	var err error
	if w.chunks, err = meter.Int64Counter("dictate.chunks",
		metric.WithDescription("Transcription cycles run")); err != nil {
		w.log.Warn("failed to create chunk counter", slog.String("error", err.Error()))
	}
	if w.failures, err = meter.Int64Counter("dictate.chunk_failures",
		metric.WithDescription("Transcription cycles that failed")); err != nil {
		w.log.Warn("failed to create failure counter", slog.String("error", err.Error()))
	}
	if w.typedChars, err = meter.Int64Counter("dictate.typed_chars",
		metric.WithDescription("Characters delivered to the typer")); err != nil {
		w.log.Warn("failed to create typed chars counter", slog.String("error", err.Error()))
	}
	if w.inference, err = meter.Float64Histogram("dictate.inference.seconds",
		metric.WithDescription("Per-chunk inference duration")); err != nil {
		w.log.Warn("failed to create inference histogram", slog.String("error", err.Error()))
	}
}

// Start launches the accumulator loop.
func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)
	poll := time.Duration(w.cfg.Chunk.QueuePollMS) * time.Millisecond
	for !w.stop.Stopped() {
		batch, ok := w.queue.PopWait(poll)
		if !ok {
			continue
		}
		w.handleBatch(batch)
	}
	w.log.Info("worker stopped", slog.Int("pending_samples", w.samples))
}

// handleBatch appends one frame batch and runs a transcription cycle once
// the target sample count is reached. Overshoot is carried into the cycle,
// never truncated.
func (w *Worker) handleBatch(batch []byte) {
	w.buffer = append(w.buffer, batch)
	w.samples += audio.SampleCount(len(batch), w.cfg.Audio.Channels)
	if w.samples < w.target {
		return
	}
	w.runCycle()
	w.buffer = nil
	w.samples = 0
}

// runCycle executes one synchronous chunk transcription. Failures are logged
// and mapped to no output; the next chunk is unaffected.
func (w *Worker) runCycle() {
	// Cancellation is cooperative only; an in-flight cycle always runs to
	// completion, so the cycle does not inherit the shutdown context.
	ctx, span := w.tracer.Start(context.Background(), "dictate.cycle",
		trace.WithAttributes(attribute.Int("samples", w.samples)))
	defer span.End()

	waveform := audio.DownmixFloat32(audio.Concat(w.buffer), w.cfg.Audio.Channels)

	start := time.Now()
	text, err := w.transcribe(ctx, waveform)
	elapsed := time.Since(start)

	if jerr := w.journal.RecordChunk(ctx, w.sessionID, len(waveform), elapsed, err); jerr != nil {
		w.log.Warn("journal write failed", slog.String("error", jerr.Error()))
	}
	if w.chunks != nil {
		w.chunks.Add(ctx, 1)
	}
	if w.inference != nil {
		w.inference.Record(ctx, elapsed.Seconds())
	}

	if err != nil {
		if w.failures != nil {
			w.failures.Add(ctx, 1)
		}
		w.log.Error("transcription failed", slog.String("error", err.Error()))
		return
	}

	w.log.Info("transcript", slog.String("text", text), slog.Duration("inference", elapsed))
	if text == "" {
		return
	}

	if err := w.typer.Type(ctx, text+" "); err != nil {
		// Keystroke failures are non-fatal; the next chunk still types.
		w.log.Warn("typing failed", slog.String("error", err.Error()))
		return
	}
	if w.typedChars != nil {
		w.typedChars.Add(ctx, int64(len(text)+1))
	}
}

func (w *Worker) transcribe(ctx context.Context, waveform []float32) (string, error) {
	path, err := stt.WriteTempWAV(waveform, w.cfg.Audio.SampleRate)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	result, err := w.recognizer.Transcribe(ctx, path, w.cfg.Model.Language)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text), nil
}

// Join waits for the loop to exit, abandoning it after the grace period.
func (w *Worker) Join(grace time.Duration) bool {
	select {
	case <-w.done:
		return true
	case <-time.After(grace):
		w.log.Warn("worker abandoned after grace period")
		return false
	}
}
