// Package journal keeps an optional SQLite record of dictation sessions:
// timings and per-chunk outcomes only. Transcript text is never stored.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// Chunk is one recorded transcription cycle.
type Chunk struct {
	ID          int64
	SessionID   string
	SampleCount int
	InferenceMS int64
	OK          bool
	Error       string
	CreatedAt   time.Time
}

// Journal wraps the session database. With no path configured it is a no-op.
type Journal struct {
	db    *sql.DB
	cfg   config.JournalConfig
	log   *slog.Logger
	clock func() time.Time
}

func Open(ctx context.Context, cfg config.JournalConfig, log *slog.Logger) (*Journal, error) {
	if cfg.Path == "" {
		return &Journal{cfg: cfg, log: log, clock: time.Now}, nil
	}

	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	j := &Journal{db: db, cfg: cfg, log: log, clock: time.Now}
	if err := j.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := j.Prune(ctx); err != nil {
		log.Warn("journal prune on open failed", slog.String("error", err.Error()))
	}
	return j, nil
}

func (j *Journal) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    model TEXT,
    language TEXT,
    started_at TIMESTAMP NOT NULL,
    stopped_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    sample_count INTEGER NOT NULL,
    inference_ms INTEGER NOT NULL,
    ok INTEGER NOT NULL,
    error TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY(session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_chunks_session_created ON chunks(session_id, created_at);
`
	_, err := j.db.ExecContext(ctx, ddl)
	return err
}

// Enabled reports whether a database is backing the journal.
func (j *Journal) Enabled() bool {
	return j != nil && j.db != nil
}

func (j *Journal) Close() error {
	if !j.Enabled() {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) BeginSession(ctx context.Context, sessionID, model, language string) error {
	if !j.Enabled() {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, model, language, started_at) VALUES (?, ?, ?, ?)`,
		sessionID, model, language, j.clock().UTC())
	return err
}

func (j *Journal) EndSession(ctx context.Context, sessionID string) error {
	if !j.Enabled() {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`UPDATE sessions SET stopped_at = ? WHERE session_id = ?`,
		j.clock().UTC(), sessionID)
	return err
}

// RecordChunk appends one cycle outcome. Only counts and timings are stored.
func (j *Journal) RecordChunk(ctx context.Context, sessionID string, sampleCount int, inference time.Duration, chunkErr error) error {
	if !j.Enabled() {
		return nil
	}
	ok := 1
	errText := ""
	if chunkErr != nil {
		ok = 0
		errText = chunkErr.Error()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO chunks (session_id, sample_count, inference_ms, ok, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, sampleCount, inference.Milliseconds(), ok, errText, j.clock().UTC())
	return err
}

func (j *Journal) ListSessionChunks(ctx context.Context, sessionID string, limit int) ([]Chunk, error) {
	if !j.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session_id, sample_count, inference_ms, ok, error, created_at
		 FROM chunks WHERE session_id = ? ORDER BY created_at ASC, id ASC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var ok int
		if err := rows.Scan(&c.ID, &c.SessionID, &c.SampleCount, &c.InferenceMS, &ok, &c.Error, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.OK = ok == 1
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// Prune enforces retention by age and by session count.
func (j *Journal) Prune(ctx context.Context) error {
	if !j.Enabled() {
		return nil
	}
	if j.cfg.RetentionDays > 0 {
		cutoff := j.clock().UTC().AddDate(0, 0, -j.cfg.RetentionDays)
		if _, err := j.db.ExecContext(ctx,
			`DELETE FROM sessions WHERE started_at < ?`, cutoff); err != nil {
			return err
		}
	}
	if j.cfg.MaxSessions > 0 {
		if _, err := j.db.ExecContext(ctx,
			`DELETE FROM sessions WHERE session_id NOT IN (
			     SELECT session_id FROM sessions ORDER BY started_at DESC LIMIT ?)`,
			j.cfg.MaxSessions); err != nil {
			return err
		}
	}
	return nil
}
