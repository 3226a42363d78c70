package hotkey

import (
	"log/slog"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/Kr-Adarsh/whisper-dictate/internal/config"
)

// Listener observes key presses system-wide, independent of focus, and
// triggers the Stopper when the configured stop key is pressed. All other
// keys are ignored.
type Listener struct {
	key  string
	stop *Stopper
	log  *slog.Logger
	done chan struct{}
}

func NewListener(cfg config.HotkeyConfig, stop *Stopper, log *slog.Logger) *Listener {
	return &Listener{
		key:  cfg.StopKey,
		stop: stop,
		log:  log.With(slog.String("component", "hotkey")),
		done: make(chan struct{}),
	}
}

// Start registers the global hook and runs the event pump in a goroutine.
// Must be called before audio capture begins.
func (l *Listener) Start() {
	hook.Register(hook.KeyDown, []string{l.key}, func(_ hook.Event) {
		// The handler must never take the observer down with it.
		defer func() {
			if r := recover(); r != nil {
				l.log.Warn("stop key handler panicked", slog.Any("panic", r))
			}
		}()
		l.log.Info("stop requested", slog.String("key", l.key))
		l.stop.Trigger()
		hook.End()
	})

	go func() {
		defer close(l.done)
		<-hook.Process(hook.Start())
	}()
	l.log.Info("stop key registered", slog.String("key", l.key))
}

// Close unregisters the hook and waits briefly for the pump to drain.
func (l *Listener) Close() {
	hook.End()
	select {
	case <-l.done:
	case <-time.After(time.Second):
		l.log.Warn("hotkey pump did not drain in time")
	}
}
