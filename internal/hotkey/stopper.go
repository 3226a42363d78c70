package hotkey

import "sync/atomic"

// Stopper is the shared shutdown flag. The stop-key handler (or the signal
// path) is its only writer; the main loop and the worker poll it. Once set
// it is never reset.
type Stopper struct {
	flag atomic.Bool
}

func NewStopper() *Stopper {
	return &Stopper{}
}

func (s *Stopper) Trigger() {
	s.flag.Store(true)
}

func (s *Stopper) Stopped() bool {
	return s.flag.Load()
}
