package audio

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gen2brain/malgo"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// Capture owns one miniaudio capture stream for the process lifetime. The
// data callback copies every delivered batch onto the handoff queue; it must
// never block and never drop.
type Capture struct {
	cfg    config.AudioConfig
	queue  *FrameQueue
	log    *slog.Logger
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func NewCapture(cfg config.AudioConfig, queue *FrameQueue, log *slog.Logger) (*Capture, error) {
	c := &Capture{
		cfg:   cfg,
		queue: queue,
		log:   log.With(slog.String("component", "capture")),
	}

	// Backend log messages are the stream's delivery-status warnings.
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		c.log.Warn("audio backend", slog.String("message", strings.TrimSpace(message)))
	})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	c.ctx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			batch := make([]byte, len(input))
			copy(batch, input)
			c.queue.Push(batch)
		},
		Stop: func() {
			c.log.Info("capture stream stopped")
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	c.device = device

	return c, nil
}

func (c *Capture) Start() error {
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("start capture device: %w", err)
	}
	c.log.Info("capture started",
		slog.Int("sample_rate", c.cfg.SampleRate),
		slog.Int("channels", c.cfg.Channels))
	return nil
}

// Stop halts delivery. No batches are enqueued after Stop returns.
func (c *Capture) Stop() {
	if c.device != nil {
		_ = c.device.Stop()
	}
}

func (c *Capture) Close() {
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	if c.ctx != nil {
		_ = c.ctx.Uninit()
		c.ctx.Free()
		c.ctx = nil
	}
}
