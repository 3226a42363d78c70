package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func encodeS16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestSampleCount(t *testing.T) {
	if got := SampleCount(8, 1); got != 4 {
		t.Fatalf("mono: expected 4 frames, got %d", got)
	}
	if got := SampleCount(8, 2); got != 2 {
		t.Fatalf("stereo: expected 2 frames, got %d", got)
	}
	if got := SampleCount(8, 0); got != 0 {
		t.Fatalf("zero channels: expected 0, got %d", got)
	}
}

func TestDownmixMono(t *testing.T) {
	pcm := encodeS16(16384, -16384)
	out := DownmixFloat32(pcm, 1)
	if len(out) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(out))
	}
	if math.Abs(float64(out[0]-0.5)) > 1e-4 {
		t.Fatalf("expected 0.5, got %f", out[0])
	}
	if math.Abs(float64(out[1]+0.5)) > 1e-4 {
		t.Fatalf("expected -0.5, got %f", out[1])
	}
}

func TestDownmixStereoMeansChannels(t *testing.T) {
	// Frame 0: L=16384, R=-16384 -> 0. Frame 1: L=8192, R=16384 -> 0.375.
	pcm := encodeS16(16384, -16384, 8192, 16384)
	out := DownmixFloat32(pcm, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(out))
	}
	if math.Abs(float64(out[0])) > 1e-4 {
		t.Fatalf("expected 0, got %f", out[0])
	}
	if math.Abs(float64(out[1]-0.375)) > 1e-4 {
		t.Fatalf("expected 0.375, got %f", out[1])
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	out := Concat([][]byte{{1, 2}, {3}, {}, {4, 5}})
	if len(out) != 5 {
		t.Fatalf("expected 5 bytes, got %d", len(out))
	}
	for i, b := range out {
		if b != byte(i+1) {
			t.Fatalf("expected byte %d at index %d, got %d", i+1, i, b)
		}
	}
}
