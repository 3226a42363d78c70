package audio

import "encoding/binary"

// SampleCount returns the number of frames in an interleaved s16le payload.
func SampleCount(pcmLen, channels int) int {
	if channels <= 0 {
		return 0
	}
	return pcmLen / 2 / channels
}

// DownmixFloat32 converts interleaved s16le PCM to a mono float32 waveform
// in [-1, 1). Multi-channel input collapses to the arithmetic mean across
// channels at each frame.
func DownmixFloat32(pcm []byte, channels int) []float32 {
	if channels <= 0 {
		return nil
	}
	frames := SampleCount(len(pcm), channels)
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			offset := (i*channels + c) * 2
			sample := int16(binary.LittleEndian.Uint16(pcm[offset:]))
			sum += float32(sample) / 32768
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// Concat joins frame batches along the time axis.
func Concat(batches [][]byte) []byte {
	var total int
	for _, b := range batches {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}
