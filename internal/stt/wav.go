package stt

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteTempWAV writes a mono float32 waveform to a freshly created temp file
// as 16-bit PCM WAV and returns its path. The caller removes the file.
func WriteTempWAV(samples []float32, sampleRate int) (string, error) {
	file, err := os.CreateTemp("", "dictate_*.wav")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}

	buffer := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		buffer.Data[i] = v
	}

	enc := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	if err := enc.Write(buffer); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("close wav encoder: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close wav file: %w", err)
	}
	return file.Name(), nil
}

// ReadWAVFloat32 decodes a PCM WAV file into a normalized mono float32
// waveform in [-1, 1).
func ReadWAVFloat32(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("decode wav: empty buffer")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(buf.Data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / scale
		}
		out[i] = sum / float32(channels)
	}
	return out, nil
}
