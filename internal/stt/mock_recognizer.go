package stt

import (
	"context"
	"fmt"
	"os"
)

type mockRecognizer struct{}

func NewMockRecognizer() Recognizer {
	return &mockRecognizer{}
}

func (m *mockRecognizer) Transcribe(_ context.Context, wavPath string, _ string) (Result, error) {
	info, err := os.Stat(wavPath)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: fmt.Sprintf("[transcript bytes=%d]", info.Size())}, nil
}

func (m *mockRecognizer) Close() error {
	return nil
}
