package composer

import "time"

// DisplayError shows message and replaces any pending dismissal with a new
// one ErrorDisplay from now. An empty message clears the banner.
func (s *Store) DisplayError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		s.clearErrorLocked()
	} else {
		s.showErrorLocked(message)
	}
	s.notifyLocked()
}

// ClearError hides the banner now and cancels its pending dismissal.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearErrorLocked()
	s.notifyLocked()
}

func (s *Store) showErrorLocked(message string) {
	s.stopDismissLocked()
	s.state = showError(s.state, message)
	if s.closed {
		return
	}
	gen := s.bannerGen
	s.dismiss = time.AfterFunc(s.opts.ErrorDisplay, func() {
		s.dismissError(gen)
	})
}

func (s *Store) clearErrorLocked() {
	s.stopDismissLocked()
	s.state = clearError(s.state)
}

// stopDismissLocked retires the current dismissal. Bumping the generation
// covers a timer that already fired and is waiting for the lock.
func (s *Store) stopDismissLocked() {
	if s.dismiss != nil {
		s.dismiss.Stop()
		s.dismiss = nil
	}
	s.bannerGen++
}

func (s *Store) dismissError(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.bannerGen {
		return
	}
	s.dismiss = nil
	s.state = clearError(s.state)
	s.notifyLocked()
}
