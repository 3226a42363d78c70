package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// execRecognizer shells out to an external transcriber command. The command
// receives the WAV path and language and prints {"text": ...} on stdout.
type execRecognizer struct {
	cmd []string
	cfg config.ModelConfig
	mu  sync.Mutex
}

type execResult struct {
	Text string `json:"text"`
}

func NewExecRecognizer(cfg config.ModelConfig) (Recognizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse stt command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("stt command is empty")
	}
	return &execRecognizer{cmd: args, cfg: cfg}, nil
}

func (r *execRecognizer) Transcribe(ctx context.Context, wavPath string, language string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	args := append([]string{}, r.cmd...)
	base := args[0]
	cmdArgs := args[1:]
	cmdArgs = append(cmdArgs, "--audio", wavPath)
	if r.cfg.Dir != "" {
		cmdArgs = append(cmdArgs, "--model", ModelPath(r.cfg.Dir, r.cfg.Variant))
	}
	if language != "" {
		cmdArgs = append(cmdArgs, "--language", language)
	}

	command := exec.CommandContext(ctx, base, cmdArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return Result{}, fmt.Errorf("stt command failed: %w: %s", err, stderr.String())
	}

	var resp execResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return Result{}, fmt.Errorf("decode stt response: %w", err)
	}
	return Result{Text: resp.Text}, nil
}

func (r *execRecognizer) Close() error {
	return nil
}
