package connection

import (
	"errors"
	"sync"

	"laserlink/internal/domain/models"
	"laserlink/internal/domain/ports"
	"laserlink/pkg/linkport"
)

// Attachment описывает только что открытое соединение.
// Generation растёт с каждым подключением; строки старых поколений считаются устаревшими.
type Attachment struct {
	Generation uint64
	Port       string
	Lines      <-chan string

	// Replaced порт сессии, закрытой этим вызовом Connect; пусто, если закрывать было нечего.
	// Заполняется и при ошибке подключения.
	Replaced string
}

// ConnectionService владеет не более чем одной сессией с устройством.
type ConnectionService struct {
	opener linkport.Opener
	lister ports.PortLister
	cfg    linkport.Config
	log    ports.Logger

	mu   sync.Mutex
	sess *linkport.Session
	gen  uint64
}

// NewConnectionService создает новый экземпляр ConnectionService
func NewConnectionService(opener linkport.Opener, lister ports.PortLister, cfg linkport.Config, log ports.Logger) *ConnectionService {
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	return &ConnectionService{
		opener: opener,
		lister: lister,
		cfg:    cfg,
		log:    log,
	}
}

// ListPorts возвращает список доступных в системе COM-портов
func (s *ConnectionService) ListPorts() []string {
	return s.lister.ListPorts()
}

// DescribePorts возвращает подробности по портам
func (s *ConnectionService) DescribePorts() ([]models.PortInfo, error) {
	return s.lister.DescribePorts()
}

// Connect открывает порт. Новый порт открывается раньше, чем закрывается текущая
// сессия, поэтому при ошибке текущая сессия остаётся рабочей. Повторное подключение
// к тому же порту сначала закрывает его: занятый порт второй раз не открыть.
// Фоновое чтение закрытой сессии к возврату уже завершено.
func (s *ConnectionService) Connect(port string) (Attachment, error) {
	if !models.IsSelectablePort(port) {
		return Attachment{}, models.ErrPortSelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var att Attachment
	if s.sess != nil && s.sess.PortName() == port {
		att.Replaced = port
		if err := s.closeLocked(); err != nil {
			s.logf("close %s before reconnect: %v", port, err)
		}
	}

	sess, err := linkport.Dial(s.opener, port, s.cfg)
	if err != nil {
		s.logf("connect to %s failed: %v", port, err)
		return att, err
	}

	if s.sess != nil {
		att.Replaced = s.sess.PortName()
		if err := s.closeLocked(); err != nil {
			s.logf("close %s after switching to %s: %v", att.Replaced, port, err)
		}
	}
	sess.StartReader()

	s.sess = sess
	s.gen++
	if s.log != nil {
		s.log.Info("connected to %s (generation %d)", port, s.gen)
	}
	att.Generation = s.gen
	att.Port = port
	att.Lines = sess.Lines()
	return att, nil
}

// Disconnect закрывает текущую сессию. Без сессии ничего не делает.
func (s *ConnectionService) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *ConnectionService) closeLocked() error {
	if s.sess == nil {
		return nil
	}
	name := s.sess.PortName()
	err := s.sess.Close()
	s.sess = nil
	if s.log != nil {
		s.log.Info("disconnected from %s", name)
	}
	return err
}

// IsConnected проверяет, активно ли соединение
func (s *ConnectionService) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.IsOpen()
}

// State снимок состояния текущей сессии.
func (s *ConnectionService) State() linkport.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.State()
}

// Generation номер текущего подключения.
func (s *ConnectionService) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// WriteLine отправляет строку в текущую сессию.
func (s *ConnectionService) WriteLine(line string) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()

	if !sess.IsOpen() {
		return models.ErrNotConnected
	}
	err := sess.WriteLine(line)
	if errors.Is(err, linkport.ErrClosed) {
		return models.ErrNotConnected
	}
	return err
}

func (s *ConnectionService) logf(msg string, args ...interface{}) {
	if s.log != nil {
		s.log.Warn(msg, args...)
	}
}
