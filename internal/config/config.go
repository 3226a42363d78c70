package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type ModelConfig struct {
	Variant  string
	Dir      string
	Mode     string // whispercpp, exec, mock
	Command  string
	Language string
	Threads  int
}

type AudioConfig struct {
	SampleRate int
	Channels   int
}

type ChunkConfig struct {
	Seconds     float64
	QueuePollMS int
	IdlePollMS  int
	StopGraceMS int
}

type TyperConfig struct {
	Mode    string // exec, clipboard, mock
	Command string
	DelayMS int
}

type HotkeyConfig struct {
	StopKey string
}

type JournalConfig struct {
	Path          string
	RetentionDays int
	MaxSessions   int
}

type TelemetryConfig struct {
	LogLevel     string
	OTLPEndpoint string
	OTLPInsecure bool
	MetricsBind  string
}

type Config struct {
	Model     ModelConfig
	Audio     AudioConfig
	Chunk     ChunkConfig
	Typer     TyperConfig
	Hotkey    HotkeyConfig
	Journal   JournalConfig
	Telemetry TelemetryConfig
}

// knownVariants mirrors the ggml model files whisper.cpp ships.
var knownVariants = map[string]bool{
	"tiny":      true,
	"tiny.en":   true,
	"base":      true,
	"base.en":   true,
	"small":     true,
	"small.en":  true,
	"medium":    true,
	"medium.en": true,
	"large-v2":  true,
	"large-v3":  true,
	"large":     true,
}

func Default() Config {
	return Config{
		Model: ModelConfig{
			Variant:  "small",
			Dir:      "./models",
			Mode:     "whispercpp",
			Language: "en",
		},
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
		},
		Chunk: ChunkConfig{
			Seconds:     4.5,
			QueuePollMS: 500,
			IdlePollMS:  100,
			StopGraceMS: 2000,
		},
		Typer: TyperConfig{
			Mode:    "exec",
			Command: "xdotool",
			DelayMS: 1,
		},
		Hotkey: HotkeyConfig{
			StopKey: "esc",
		},
		Journal: JournalConfig{
			RetentionDays: 30,
			MaxSessions:   10000,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			OTLPInsecure: true,
		},
	}
}

// Load builds the effective configuration from defaults plus environment
// overrides. There is deliberately no config file.
func Load() (Config, error) {
	cfg := Default()
	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Model.Variant, "WHISPER_MODEL")
	overrideString(&cfg.Model.Dir, "DICTATE_MODEL_DIR")
	overrideString(&cfg.Model.Mode, "DICTATE_MODEL_MODE")
	overrideString(&cfg.Model.Command, "DICTATE_MODEL_COMMAND")
	overrideString(&cfg.Model.Language, "DICTATE_LANGUAGE")
	overrideInt(&cfg.Model.Threads, "DICTATE_MODEL_THREADS")
	overrideInt(&cfg.Audio.SampleRate, "DICTATE_SAMPLE_RATE")
	overrideInt(&cfg.Audio.Channels, "DICTATE_CHANNELS")
	overrideFloat(&cfg.Chunk.Seconds, "DICTATE_CHUNK_SECONDS")
	overrideInt(&cfg.Chunk.QueuePollMS, "DICTATE_QUEUE_POLL_MS")
	overrideInt(&cfg.Chunk.IdlePollMS, "DICTATE_IDLE_POLL_MS")
	overrideInt(&cfg.Chunk.StopGraceMS, "DICTATE_STOP_GRACE_MS")
	overrideString(&cfg.Typer.Mode, "DICTATE_TYPER_MODE")
	overrideString(&cfg.Typer.Command, "DICTATE_TYPER_COMMAND")
	overrideInt(&cfg.Typer.DelayMS, "DICTATE_TYPER_DELAY_MS")
	overrideString(&cfg.Hotkey.StopKey, "DICTATE_STOP_KEY")
	overrideString(&cfg.Journal.Path, "DICTATE_JOURNAL_PATH")
	overrideInt(&cfg.Journal.RetentionDays, "DICTATE_JOURNAL_RETENTION_DAYS")
	overrideInt(&cfg.Journal.MaxSessions, "DICTATE_JOURNAL_MAX_SESSIONS")
	overrideString(&cfg.Telemetry.LogLevel, "DICTATE_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "DICTATE_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "DICTATE_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.MetricsBind, "DICTATE_TELEMETRY_METRICS_BIND")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if !knownVariants[cfg.Model.Variant] {
		return fmt.Errorf("unknown model variant %q", cfg.Model.Variant)
	}
	switch cfg.Model.Mode {
	case "whispercpp", "exec", "mock":
	default:
		return errors.New("model mode must be one of whispercpp|exec|mock")
	}
	if cfg.Model.Mode == "exec" && cfg.Model.Command == "" {
		return errors.New("model command must be set when mode=exec")
	}
	if cfg.Model.Mode == "whispercpp" && cfg.Model.Dir == "" {
		return errors.New("model dir must not be empty when mode=whispercpp")
	}
	if cfg.Model.Language == "" {
		return errors.New("language must not be empty")
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}
	if cfg.Audio.Channels <= 0 {
		return errors.New("channels must be positive")
	}
	if cfg.Chunk.Seconds <= 0 {
		return errors.New("chunk seconds must be positive")
	}
	if cfg.Chunk.QueuePollMS <= 0 {
		return errors.New("queue poll interval must be positive")
	}
	if cfg.Chunk.IdlePollMS <= 0 {
		return errors.New("idle poll interval must be positive")
	}
	if cfg.Chunk.StopGraceMS < 0 {
		return errors.New("stop grace must be >= 0")
	}
	switch cfg.Typer.Mode {
	case "exec", "clipboard", "mock":
	default:
		return errors.New("typer mode must be one of exec|clipboard|mock")
	}
	if cfg.Typer.Mode == "exec" && cfg.Typer.Command == "" {
		return errors.New("typer command must be set when mode=exec")
	}
	if cfg.Typer.DelayMS < 0 {
		return errors.New("typer delay must be >= 0")
	}
	if cfg.Hotkey.StopKey == "" {
		return errors.New("stop key must not be empty")
	}
	if cfg.Journal.RetentionDays < 0 {
		return errors.New("journal retention days must be >= 0")
	}
	return nil
}

// TargetSamples returns the per-chunk accumulation threshold, in frames.
func (c Config) TargetSamples() int {
	return int(c.Chunk.Seconds * float64(c.Audio.SampleRate))
}
