package serialport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"laserlink/internal/domain/models"
	"laserlink/pkg/linkport"
)

// inboundDepth ёмкость входного буфера виртуального порта в кусках.
const inboundDepth = 64

var (
	ErrPortNotFound = errors.New("serial port not found")
	ErrPortBusy     = errors.New("serial port busy")
	errPortClosed   = errors.New("port has been closed")
)

// ReplyFunc возвращает строки, которыми устройство отвечает на принятую команду.
type ReplyFunc func(line string) []string

// DeviceReplies имитирует прошивку лазерного модуля.
func DeviceReplies() ReplyFunc {
	var mu sync.Mutex
	buffered := ""
	return func(line string) []string {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case line == "CAL":
			return []string{"CAL OK"}
		case line == "RX":
			if buffered == "" {
				return []string{"RX EMPTY"}
			}
			return []string{"RX " + buffered}
		case strings.HasPrefix(line, "TX "):
			buffered = strings.TrimPrefix(line, "TX ")
			return []string{"TX OK"}
		default:
			return []string{"ERR " + line}
		}
	}
}

// Emulator набор виртуальных портов в памяти. Реализует linkport.Opener и ports.PortLister,
// используется режимом --simulate и тестами.
type Emulator struct {
	mu       sync.Mutex
	names    []string
	openErrs map[string]error
	open     map[string]*EmulatedPort
	reply    ReplyFunc
}

// NewEmulator создаёт эмулятор с указанными портами. По умолчанию устройство отвечает как DeviceReplies.
func NewEmulator(names ...string) *Emulator {
	return &Emulator{
		names:    append([]string(nil), names...),
		openErrs: make(map[string]error),
		open:     make(map[string]*EmulatedPort),
		reply:    DeviceReplies(),
	}
}

// SetReply меняет поведение устройства; nil отключает автоматические ответы.
func (e *Emulator) SetReply(fn ReplyFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reply = fn
}

// SetPorts заменяет набор видимых портов.
func (e *Emulator) SetPorts(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append([]string(nil), names...)
}

// FailOpen заставляет Open для порта вернуть ошибку.
func (e *Emulator) FailOpen(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErrs[name] = err
}

// ListPorts возвращает видимые порты.
func (e *Emulator) ListPorts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.names...)
}

// DescribePorts возвращает описания виртуальных портов.
func (e *Emulator) DescribePorts() ([]models.PortInfo, error) {
	names := e.ListPorts()
	out := make([]models.PortInfo, 0, len(names))
	for _, n := range names {
		out = append(out, models.PortInfo{Name: n, Product: "Laser link emulator"})
	}
	return out, nil
}

// Open открывает виртуальный порт. Один порт может быть открыт только один раз.
func (e *Emulator) Open(name string, mode linkport.Mode) (linkport.Port, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.openErrs[name]; err != nil {
		return nil, err
	}
	if !e.known(name) {
		return nil, ErrPortNotFound
	}
	if _, busy := e.open[name]; busy {
		return nil, ErrPortBusy
	}

	p := &EmulatedPort{
		name:    name,
		baud:    mode.BaudRate,
		inbound: make(chan []byte, inboundDepth),
		closed:  make(chan struct{}),
		timeout: linkport.DefaultReadTimeout,
		owner:   e,
	}
	e.open[name] = p
	return p, nil
}

// Port возвращает открытый виртуальный порт или nil.
func (e *Emulator) Port(name string) *EmulatedPort {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open[name]
}

func (e *Emulator) known(name string) bool {
	for _, n := range e.names {
		if n == name {
			return true
		}
	}
	return false
}

func (e *Emulator) release(p *EmulatedPort) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open[p.name] == p {
		delete(e.open, p.name)
	}
}

func (e *Emulator) replyFunc() ReplyFunc {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reply
}

// EmulatedPort виртуальный порт эмулятора.
type EmulatedPort struct {
	name  string
	baud  int
	owner *Emulator

	mu      sync.Mutex
	timeout time.Duration
	rest    []byte
	written bytes.Buffer
	partial []byte

	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

// Name имя порта.
func (p *EmulatedPort) Name() string {
	return p.name
}

// BaudRate скорость, с которой порт был открыт.
func (p *EmulatedPort) BaudRate() int {
	return p.baud
}

// Inject кладёт данные во входной буфер, как если бы их прислало устройство.
func (p *EmulatedPort) Inject(data string) error {
	select {
	case <-p.closed:
		return errPortClosed
	default:
	}
	select {
	case p.inbound <- []byte(data):
		return nil
	case <-p.closed:
		return errPortClosed
	}
}

// Written всё, что было записано в порт.
func (p *EmulatedPort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}

// IsClosed true после Close.
func (p *EmulatedPort) IsClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

func (p *EmulatedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if len(p.rest) > 0 {
		n := copy(b, p.rest)
		p.rest = p.rest[n:]
		p.mu.Unlock()
		return n, nil
	}
	timeout := p.timeout
	p.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.closed:
		return 0, errPortClosed
	case chunk := <-p.inbound:
		n := copy(b, chunk)
		if n < len(chunk) {
			p.mu.Lock()
			p.rest = append(p.rest, chunk[n:]...)
			p.mu.Unlock()
		}
		return n, nil
	case <-timer.C:
		return 0, nil
	}
}

func (p *EmulatedPort) Write(b []byte) (int, error) {
	if p.IsClosed() {
		return 0, errPortClosed
	}

	p.mu.Lock()
	p.written.Write(b)
	p.partial = append(p.partial, b...)
	var lines []string
	for {
		idx := bytes.IndexByte(p.partial, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, strings.TrimSpace(string(p.partial[:idx])))
		p.partial = p.partial[idx+1:]
	}
	p.mu.Unlock()

	if reply := p.owner.replyFunc(); reply != nil {
		for _, line := range lines {
			for _, answer := range reply(line) {
				p.offer(answer + "\r\n")
			}
		}
	}
	return len(b), nil
}

// offer кладёт ответ устройства во входной буфер, не блокируя запись.
// При переполненном буфере ответ теряется, как у настоящего UART.
func (p *EmulatedPort) offer(data string) bool {
	select {
	case p.inbound <- []byte(data):
		return true
	default:
		return false
	}
}

func (p *EmulatedPort) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.owner.release(p)
	})
	return nil
}

func (p *EmulatedPort) SetReadTimeout(t time.Duration) error {
	if t <= 0 {
		return fmt.Errorf("invalid read timeout %s", t)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *EmulatedPort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rest = nil
	for {
		select {
		case <-p.inbound:
		default:
			return nil
		}
	}
}
