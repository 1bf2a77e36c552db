package linkport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	readChunk  = 256
	lineBuffer = 64
)

// Config параметры сессии. Нулевые значения заменяются значениями по умолчанию.
type Config struct {
	BaudRate    int           // по умолчанию 9600
	ReadTimeout time.Duration // по умолчанию 1s
	Codec       Codec         // по умолчанию UTF-8
	Logger      Logger        // может быть nil
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.Codec.enc == nil {
		c.Codec = UTF8
	}
	return c
}

// Session одно открытое соединение с устройством.
// Запись и чтение независимы и могут идти параллельно.
type Session struct {
	name string
	cfg  Config
	port Port

	open atomic.Bool

	wmu sync.Mutex // сериализует запись

	rmu     sync.Mutex // сериализует ReadLine
	pmu     sync.Mutex // защищает pending
	pending []byte
	buf     []byte

	closeOnce sync.Once
	closeErr  error

	startOnce sync.Once

	cancel context.CancelFunc
	done   chan struct{}
	lines  chan string
}

// Open открывает порт и сразу запускает фоновое чтение.
func Open(opener Opener, name string, cfg Config) (*Session, error) {
	s, err := Dial(opener, name, cfg)
	if err != nil {
		return nil, err
	}
	s.StartReader()
	return s, nil
}

// Dial открывает порт без фонового чтения. Строки читаются через ReadLine,
// пока не вызван StartReader.
func Dial(opener Opener, name string, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	port, err := opener.Open(name, Mode{BaudRate: cfg.BaudRate, DataBits: 8})
	if err != nil {
		return nil, &ConnectionError{Port: name, Err: err}
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, &ConnectionError{Port: name, Err: err}
	}
	// Остатки от предыдущего владельца порта нам не нужны
	if err := port.ResetInputBuffer(); err != nil {
		debugf(cfg.Logger, "reset input buffer on %s: %v", name, err)
	}

	s := &Session{
		name: name,
		cfg:  cfg,
		port: port,
		buf:  make([]byte, readChunk),
	}
	s.open.Store(true)
	debugf(cfg.Logger, "opened %s at %d baud, read timeout %s", name, cfg.BaudRate, cfg.ReadTimeout)
	return s, nil
}

// PortName имя открытого порта.
func (s *Session) PortName() string {
	return s.name
}

// IsOpen true до вызова Close.
func (s *Session) IsOpen() bool {
	return s != nil && s.open.Load()
}

// State снимок состояния сессии.
func (s *Session) State() State {
	if s == nil {
		return State{}
	}
	return State{
		IsOpen:      s.IsOpen(),
		PortName:    s.name,
		BaudRate:    s.cfg.BaudRate,
		ReadTimeout: s.cfg.ReadTimeout,
	}
}

// Write отправляет байты целиком.
func (s *Session) Write(p []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if !s.IsOpen() {
		return ErrClosed
	}
	for len(p) > 0 {
		n, err := s.port.Write(p)
		if err != nil {
			return &TransportError{Op: "write", Port: s.name, Err: err}
		}
		if n == 0 {
			return &TransportError{Op: "write", Port: s.name, Err: io.ErrShortWrite}
		}
		p = p[n:]
	}
	return nil
}

// WriteLine кодирует строку кодировкой сессии и отправляет её с '\n'.
func (s *Session) WriteLine(text string) error {
	data, err := s.cfg.Codec.Encode(text + "\n")
	if err != nil {
		return err
	}
	debugf(s.cfg.Logger, "tx %s: %q", s.name, text)
	return s.Write(data)
}

// Available количество принятых, но ещё не прочитанных байт. Не блокирует.
func (s *Session) Available() int {
	if !s.IsOpen() {
		return 0
	}
	s.pmu.Lock()
	defer s.pmu.Unlock()
	return len(s.pending)
}

// ReadLine ждёт строку не дольше таймаута чтения.
// По таймауту без данных возвращает ""; неполная строка по таймауту отдаётся как есть.
func (s *Session) ReadLine() (string, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()

	if !s.IsOpen() {
		return "", ErrClosed
	}

	deadline := time.Now().Add(s.cfg.ReadTimeout)
	for {
		if line, ok := s.takeLine(); ok {
			return s.decode(line), nil
		}
		if !time.Now().Before(deadline) {
			return s.decode(s.takeAll()), nil
		}

		n, err := s.port.Read(s.buf)
		if n > 0 {
			s.pmu.Lock()
			s.pending = append(s.pending, s.buf[:n]...)
			s.pmu.Unlock()
		}
		if err != nil {
			if !s.IsOpen() {
				return "", ErrClosed
			}
			return "", &TransportError{Op: "read", Port: s.name, Err: err}
		}
		if n == 0 {
			// таймаут порта истёк, новых данных нет
			return s.decode(s.takeAll()), nil
		}
	}
}

func (s *Session) takeLine() ([]byte, bool) {
	s.pmu.Lock()
	defer s.pmu.Unlock()

	idx := bytes.IndexByte(s.pending, '\n')
	if idx < 0 {
		return nil, false
	}
	line := make([]byte, idx)
	copy(line, s.pending[:idx])
	s.pending = s.pending[idx+1:]
	return line, true
}

func (s *Session) takeAll() []byte {
	s.pmu.Lock()
	defer s.pmu.Unlock()

	rest := s.pending
	s.pending = nil
	return rest
}

func (s *Session) decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return strings.TrimSpace(s.cfg.Codec.Decode(b))
}

// Close закрывает порт, останавливает фоновое чтение и дожидается его завершения.
// Повторные вызовы и вызов на nil безопасны.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.open.Store(false)
		if s.cancel != nil {
			s.cancel()
		}
		s.closeErr = s.port.Close()
		if s.done != nil {
			<-s.done
		}
		debugf(s.cfg.Logger, "closed %s", s.name)
	})
	return s.closeErr
}

func debugf(l Logger, msg string, args ...interface{}) {
	if l != nil {
		l.Debug(msg, args...)
	}
}
