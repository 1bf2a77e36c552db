package viewmodel

import "laserlink/internal/domain/models"

const statusDisconnected = "Status: Disconnected"

// MainViewModel отвечает за отображение состояния подключения в главном окне.
type MainViewModel struct {
	// Список портов и текущий выбор
	Ports models.PortList

	// Статус подключения
	IsConnected   bool
	ConnectedPort string

	// Строка статуса и её цвет (зелёный при подключении, красный иначе)
	StatusText string
	StatusOK   bool

	// Выбор порта доступен всегда. Кнопки не блокируются: без подключения
	// команды показывают предупреждение.
	PortSelectEnabled bool
}

// NewMainViewModel создаёт новый экземпляр MainViewModel с дефолтными значениями.
func NewMainViewModel() *MainViewModel {
	vm := &MainViewModel{
		Ports: models.NewPortList(nil),
	}
	vm.UpdateUIState()
	return vm
}

// UpdateUIState обновляет состояние интерфейса в зависимости от текущего статуса подключения.
func (vm *MainViewModel) UpdateUIState() {
	if vm.IsConnected {
		vm.StatusText = "Status: Connected to " + vm.ConnectedPort
		vm.StatusOK = true
	} else {
		vm.ConnectedPort = ""
		vm.StatusText = statusDisconnected
		vm.StatusOK = false
	}
	// Переподключение разрешено и при открытом порту: старая сессия закрывается
	vm.PortSelectEnabled = true
}

// Clone копия для передачи в другой поток.
func (vm *MainViewModel) Clone() MainViewModel {
	c := *vm
	c.Ports.Items = append([]string(nil), vm.Ports.Items...)
	return c
}
