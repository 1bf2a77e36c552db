package controller

import (
	"errors"
	"sync"

	"laserlink/internal/domain/models"
	"laserlink/internal/domain/ports"
	"laserlink/internal/service/auth"
	"laserlink/internal/service/command"
	"laserlink/internal/service/connection"
	"laserlink/internal/service/logsink"
	"laserlink/internal/ui/viewmodel"
)

// Poster выполняет функцию в потоке интерфейса (walk.Form.Synchronize, tea.Program.Send).
type Poster func(fn func())

// MainController состояние приложения и обработчики действий оператора.
// Все методы вызываются из потока интерфейса; строки от устройства попадают
// туда же через Poster.
type MainController struct {
	vm         *viewmodel.MainViewModel
	gate       *auth.Gate
	conn       *connection.ConnectionService
	dispatcher *command.Dispatcher
	journal    *logsink.Log
	log        ports.Logger

	mu       sync.Mutex
	post     Poster
	onUpdate func()
	liveGen  uint64 // поколение текущего подключения, 0 если подключения нет
}

// NewMainController создает новый экземпляр MainController с использованием Dependency Injection.
func NewMainController(vm *viewmodel.MainViewModel, gate *auth.Gate, conn *connection.ConnectionService, journal *logsink.Log, log ports.Logger) *MainController {
	c := &MainController{
		vm:      vm,
		gate:    gate,
		conn:    conn,
		journal: journal,
		log:     log,
	}
	c.dispatcher = command.NewDispatcher(conn, journal)
	return c
}

// SetPoster задаёт способ передачи строк от устройства в поток интерфейса.
// Без него строки добавляются в журнал прямо из фоновой горутины под мьютексом контроллера.
func (c *MainController) SetPoster(post Poster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.post = post
}

// SetOnUpdate устанавливает callback для обновления пользовательского интерфейса.
func (c *MainController) SetOnUpdate(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = callback
}

// ViewModel возвращает копию ViewModel.
func (c *MainController) ViewModel() viewmodel.MainViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vm.Clone()
}

// Journal журнал оператора.
func (c *MainController) Journal() *logsink.Log {
	return c.journal
}

// Initialize подготавливает начальные данные (вызывать из View при старте)
func (c *MainController) Initialize() {
	c.mu.Lock()
	c.loadPortsLocked()
	c.mu.Unlock()
	c.notifyUpdate()
}

// RefreshPorts перечитывает список портов и сбрасывает выбор на первый.
func (c *MainController) RefreshPorts() {
	c.mu.Lock()
	c.loadPortsLocked()
	c.mu.Unlock()

	c.journal.Append("[Ports refreshed]")
	c.notifyUpdate()
}

func (c *MainController) loadPortsLocked() {
	c.vm.Ports = models.NewPortList(c.conn.ListPorts())
	c.vm.UpdateUIState()
}

// SelectPort меняет выбранный порт. Имена вне списка игнорируются.
func (c *MainController) SelectPort(name string) {
	c.mu.Lock()
	c.vm.Ports.Select(name)
	c.vm.UpdateUIState()
	c.mu.Unlock()
	c.notifyUpdate()
}

// Connect проверяет ключ и подключается к выбранному порту.
// При неверном ключе или невалидном порте сессия не трогается. Если новый порт
// не открылся, текущее подключение остаётся, кроме переподключения к тому же порту.
func (c *MainController) Connect(accessKey string) error {
	if err := c.gate.Check(accessKey); err != nil {
		c.warn("connect rejected: %v", err)
		return err
	}

	c.mu.Lock()
	port := c.vm.Ports.Selected
	if !c.vm.Ports.HasValidSelection() {
		c.mu.Unlock()
		return models.ErrPortSelection
	}

	att, err := c.conn.Connect(port)
	if err != nil {
		if att.Replaced == "" {
			c.mu.Unlock()
			return err
		}
		c.liveGen = 0
		c.vm.IsConnected = false
		c.vm.UpdateUIState()
		c.mu.Unlock()

		c.journal.Append("[Disconnected from " + att.Replaced + "]")
		c.notifyUpdate()
		return err
	}

	c.liveGen = att.Generation
	c.vm.IsConnected = true
	c.vm.ConnectedPort = att.Port
	c.vm.UpdateUIState()
	c.mu.Unlock()

	if att.Replaced != "" {
		c.journal.Append("[Disconnected from " + att.Replaced + "]")
	}
	c.journal.Append("[Connected to " + att.Port + "]")
	go c.pump(att)
	c.notifyUpdate()
	return nil
}

// pump переносит строки сессии в поток интерфейса. Завершается, когда сессия закрыта.
func (c *MainController) pump(att connection.Attachment) {
	for line := range att.Lines {
		line := line
		c.postToUI(func() { c.deliver(att.Generation, line) })
	}
}

func (c *MainController) postToUI(fn func()) {
	c.mu.Lock()
	post := c.post
	c.mu.Unlock()

	if post == nil {
		fn()
		return
	}
	post(fn)
}

// deliver добавляет строку в журнал, если она пришла от текущего подключения.
func (c *MainController) deliver(gen uint64, line string) {
	c.mu.Lock()
	live := c.liveGen
	c.mu.Unlock()

	if gen == 0 || gen != live {
		return
	}
	c.journal.Append(line)
}

// Disconnect закрывает текущее соединение.
func (c *MainController) Disconnect() error {
	c.mu.Lock()
	port := c.vm.ConnectedPort
	wasConnected := c.vm.IsConnected
	err := c.conn.Disconnect()
	c.liveGen = 0
	c.vm.IsConnected = false
	c.vm.UpdateUIState()
	c.mu.Unlock()

	if wasConnected {
		c.journal.Append("[Disconnected from " + port + "]")
	}
	c.notifyUpdate()
	return err
}

// Shutdown закрывает соединение при выходе. Вызывается на каждом пути завершения.
func (c *MainController) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.liveGen = 0
	if err := c.conn.Disconnect(); err != nil {
		c.warn("close on shutdown: %v", err)
	}
}

// RequireConnection проверка перед запросом текста для TX.
func (c *MainController) RequireConnection() error {
	if !c.conn.IsConnected() {
		return models.ErrNotConnected
	}
	return nil
}

// Calibrate отправляет CAL.
func (c *MainController) Calibrate() error {
	return c.afterCommand(c.dispatcher.Calibrate())
}

// Receive отправляет RX.
func (c *MainController) Receive() error {
	return c.afterCommand(c.dispatcher.Receive())
}

// Transmit отправляет TX с текстом оператора.
func (c *MainController) Transmit(payload string) error {
	return c.afterCommand(c.dispatcher.Transmit(payload))
}

func (c *MainController) afterCommand(err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotConnected) && !errors.Is(err, models.ErrEmptyPayload) {
		c.warn("command failed: %v", err)
	}
	return err
}

// notifyUpdate вызывает callback для обновления UI, если он установлен.
func (c *MainController) notifyUpdate() {
	c.mu.Lock()
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *MainController) warn(msg string, args ...interface{}) {
	if c.log != nil {
		c.log.Warn(msg, args...)
	}
}
