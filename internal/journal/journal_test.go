package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenDisabled(t *testing.T) {
	j, err := Open(context.Background(), config.JournalConfig{}, newLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	if j.Enabled() {
		t.Fatal("journal without path should be disabled")
	}
	if err := j.RecordChunk(context.Background(), "s", 100, time.Second, nil); err != nil {
		t.Fatalf("disabled journal should no-op: %v", err)
	}
}

func TestSessionAndChunks(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.JournalConfig{Path: filepath.Join(tmp, "dictate.db"), RetentionDays: 30, MaxSessions: 100}
	j, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	ctx := context.Background()
	if err := j.BeginSession(ctx, "session-1", "small", "en"); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := j.RecordChunk(ctx, "session-1", 72000, 800*time.Millisecond, nil); err != nil {
		t.Fatalf("record chunk: %v", err)
	}
	if err := j.RecordChunk(ctx, "session-1", 72000, time.Second, errors.New("inference failed")); err != nil {
		t.Fatalf("record failed chunk: %v", err)
	}
	if err := j.EndSession(ctx, "session-1"); err != nil {
		t.Fatalf("end session: %v", err)
	}

	chunks, err := j.ListSessionChunks(ctx, "session-1", 10)
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !chunks[0].OK || chunks[0].InferenceMS != 800 {
		t.Fatalf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].OK || chunks[1].Error != "inference failed" {
		t.Fatalf("unexpected second chunk: %+v", chunks[1])
	}
}

func TestPruneByAgeAndCount(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.JournalConfig{Path: filepath.Join(tmp, "dictate.db"), RetentionDays: 1, MaxSessions: 1}
	j, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	ctx := context.Background()
	j.clock = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := j.BeginSession(ctx, "old", "small", "en"); err != nil {
		t.Fatalf("begin old session: %v", err)
	}

	j.clock = func() time.Time { return time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := j.BeginSession(ctx, "new", "small", "en"); err != nil {
		t.Fatalf("begin new session: %v", err)
	}
	if err := j.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 surviving session, got %d", count)
	}
}
