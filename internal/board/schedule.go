package board

// scheduleLocked marks the board dirty and arms the save timers. Each call
// replaces the pending debounce timer, so a burst of mutations flushes once,
// SaveInterval after the last of them. When more than MaxSaveDelay has
// passed since the last flush an immediate flush is armed as well. The
// caller must hold s.mu.
func (s *Store) scheduleLocked() {
	s.dirty = true
	if s.closed {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.cfg.SaveInterval, func() { s.fire(gen) })

	if s.urgent == nil && s.clock.Now().Sub(s.lastSave) > s.cfg.MaxSaveDelay {
		s.urgent = s.clock.AfterFunc(0, func() { s.fire(0) })
	}
}

// fire is the timer callback. gen identifies the debounce timer that fired;
// zero marks the max-delay timer. A debounce timer superseded by a later
// mutation, or any timer firing after a flush already wrote the changes, is
// a no-op.
func (s *Store) fire(gen uint64) {
	_ = s.flush(func() bool {
		if !s.dirty || s.closed {
			return false
		}
		return gen == 0 || gen == s.gen
	})
}

// stopTimersLocked cancels both pending timers. The caller must hold s.mu.
func (s *Store) stopTimersLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.urgent != nil {
		s.urgent.Stop()
		s.urgent = nil
	}
}
