// Package runtime assembles the dictation pipeline and drives its
// lifecycle: startup, listening, stopping, exited.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kr-Adarsh/whisper-dictate/internal/audio"
	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
	"github.com/Kr-Adarsh/whisper-dictate/internal/dictate"
	"github.com/Kr-Adarsh/whisper-dictate/internal/hotkey"
	"github.com/Kr-Adarsh/whisper-dictate/internal/journal"
	"github.com/Kr-Adarsh/whisper-dictate/internal/stt"
	"github.com/Kr-Adarsh/whisper-dictate/internal/typer"
)

type Runtime struct {
	cfg           config.Config
	log           *slog.Logger
	metricsServer *http.Server
	wg            sync.WaitGroup
}

func New(cfg config.Config, log *slog.Logger) *Runtime {
	return &Runtime{cfg: cfg, log: log}
}

// Start runs the pipeline until the stop key is pressed or ctx is
// cancelled. All of startup completes before listening begins.
func (r *Runtime) Start(ctx context.Context) error {
	shutdownTelemetry, metricsHandler, err := setupTelemetry(r.cfg, r.log)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	r.serveMetrics(metricsHandler)

	jrnl, err := journal.Open(ctx, r.cfg.Journal, r.log)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	recognizer, err := stt.New(r.cfg.Model, r.log)
	if err != nil {
		return fmt.Errorf("create recognizer: %w", err)
	}
	defer recognizer.Close()

	keys, err := typer.New(r.cfg.Typer)
	if err != nil {
		return fmt.Errorf("create typer: %w", err)
	}

	queue := audio.NewFrameQueue()
	capture, err := audio.NewCapture(r.cfg.Audio, queue, r.log)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer capture.Close()

	stop := hotkey.NewStopper()
	listener := hotkey.NewListener(r.cfg.Hotkey, stop, r.log)
	// The observer must be registered before any audio is captured.
	listener.Start()
	defer listener.Close()

	sessionID := uuid.NewString()
	if err := jrnl.BeginSession(ctx, sessionID, r.cfg.Model.Variant, r.cfg.Model.Language); err != nil {
		r.log.Warn("journal session start failed", slog.String("error", err.Error()))
	}

	worker := dictate.NewWorker(r.cfg, queue, stop, recognizer, keys, jrnl, sessionID, r.log)
	worker.Start()

	if err := capture.Start(); err != nil {
		stop.Trigger()
		worker.Join(time.Duration(r.cfg.Chunk.StopGraceMS) * time.Millisecond)
		return err
	}

	r.log.Info("listening",
		slog.String("session", sessionID),
		slog.String("stop_key", r.cfg.Hotkey.StopKey),
		slog.Float64("chunk_seconds", r.cfg.Chunk.Seconds))

	idle := time.Duration(r.cfg.Chunk.IdlePollMS) * time.Millisecond
	for !stop.Stopped() {
		select {
		case <-ctx.Done():
			// External interrupt is a normal stop trigger, not a crash.
			r.log.Info("interrupt received")
			stop.Trigger()
		case <-time.After(idle):
		}
	}

	r.log.Info("stopping")
	capture.Stop()

	grace := time.Duration(r.cfg.Chunk.StopGraceMS) * time.Millisecond
	worker.Join(grace)

	if err := jrnl.EndSession(context.Background(), sessionID); err != nil {
		r.log.Warn("journal session end failed", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.stopMetrics(shutdownCtx)
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		r.log.Warn("telemetry shutdown error", slog.String("error", err.Error()))
	}

	r.log.Info("exited")
	return nil
}

// serveMetrics exposes the Prometheus handler only when a bind address is
// configured; the default is no listener at all.
func (r *Runtime) serveMetrics(handler http.Handler) {
	bind := r.cfg.Telemetry.MetricsBind
	if handler == nil || bind == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	r.metricsServer = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.log.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()
	r.log.Info("metrics exposed", slog.String("bind", bind))
}

func (r *Runtime) stopMetrics(ctx context.Context) {
	if r.metricsServer == nil {
		return
	}
	if err := r.metricsServer.Shutdown(ctx); err != nil {
		r.log.Warn("metrics shutdown error", slog.String("error", err.Error()))
	}
	r.wg.Wait()
}
