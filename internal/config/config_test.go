package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Variant != "small" {
		t.Fatalf("expected default variant small, got %q", cfg.Model.Variant)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.TargetSamples() != 72000 {
		t.Fatalf("expected 72000 target samples, got %d", cfg.TargetSamples())
	}
	if cfg.Journal.Path != "" {
		t.Fatal("journal should be disabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WHISPER_MODEL", "tiny")
	t.Setenv("DICTATE_LANGUAGE", "de")
	t.Setenv("DICTATE_CHUNK_SECONDS", "2.0")
	t.Setenv("DICTATE_SAMPLE_RATE", "8000")
	t.Setenv("DICTATE_TYPER_MODE", "clipboard")
	t.Setenv("DICTATE_STOP_KEY", "f12")
	t.Setenv("DICTATE_JOURNAL_PATH", "./dictate.db")
	t.Setenv("DICTATE_TELEMETRY_OTLP_INSECURE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Variant != "tiny" {
		t.Fatalf("expected variant override, got %q", cfg.Model.Variant)
	}
	if cfg.Model.Language != "de" {
		t.Fatalf("expected language override, got %q", cfg.Model.Language)
	}
	if cfg.TargetSamples() != 16000 {
		t.Fatalf("expected 16000 target samples, got %d", cfg.TargetSamples())
	}
	if cfg.Typer.Mode != "clipboard" {
		t.Fatalf("expected typer mode override, got %q", cfg.Typer.Mode)
	}
	if cfg.Hotkey.StopKey != "f12" {
		t.Fatalf("expected stop key override, got %q", cfg.Hotkey.StopKey)
	}
	if cfg.Journal.Path != "./dictate.db" {
		t.Fatalf("expected journal path override, got %q", cfg.Journal.Path)
	}
	if cfg.Telemetry.OTLPInsecure {
		t.Fatal("expected otlp insecure override false")
	}
}

func TestValidateRejectsUnknownVariant(t *testing.T) {
	t.Setenv("WHISPER_MODEL", "gigantic")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestValidateRejectsBadTyperMode(t *testing.T) {
	t.Setenv("DICTATE_TYPER_MODE", "telepathy")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown typer mode")
	}
}

func TestValidateRejectsExecWithoutCommand(t *testing.T) {
	t.Setenv("DICTATE_MODEL_MODE", "exec")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for exec mode without command")
	}
}
