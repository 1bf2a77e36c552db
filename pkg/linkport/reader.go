package linkport

import (
	"context"
	"errors"
)

// Lines канал принятых непустых строк. Закрывается, когда фоновое чтение завершилось.
// До StartReader возвращает nil.
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Done закрывается после выхода фонового чтения.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// StartReader запускает фоновое чтение. Повторные вызовы и вызов после Close ничего не делают.
func (s *Session) StartReader() {
	s.startOnce.Do(func() {
		if !s.IsOpen() {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})
		s.lines = make(chan string, lineBuffer)

		go s.readLoop(ctx)
	})
}

// readLoop блокируется только в ReadLine (с таймаутом), без холостого опроса.
func (s *Session) readLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.lines)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := s.ReadLine()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return
			}
			if s.cfg.Logger != nil {
				s.cfg.Logger.Error("reader on %s stopped: %v", s.name, err)
			}
			return
		}
		if line == "" {
			continue
		}

		debugf(s.cfg.Logger, "rx %s: %q", s.name, line)
		select {
		case s.lines <- line:
		case <-ctx.Done():
			return
		}
	}
}
