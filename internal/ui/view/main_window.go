//go:build windows

package view

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lxn/walk"
	d "github.com/lxn/walk/declarative"
	"github.com/lxn/win"

	"laserlink/internal/domain/models"
	"laserlink/internal/ui/controller"
	"laserlink/internal/ui/view/dialogs"
)

var (
	backgroundColor = walk.RGB(0xd0, 0xe6, 0xff)
	logColor        = walk.RGB(0xfe, 0xfa, 0xe0)
	statusOKColor   = walk.RGB(0, 128, 0)
	statusBadColor  = walk.RGB(200, 0, 0)
)

// MainWindowView отвечает за отображение главного окна приложения и взаимодействие с пользователем.
// Вся логика находится в контроллере, здесь только виджеты и обработка событий.
type MainWindowView struct {
	mw       *walk.MainWindow
	mainCtrl *controller.MainController

	keyEdit     *walk.LineEdit
	portCombo   *walk.ComboBox
	connectBtn  *walk.PushButton
	statusLabel *walk.Label
	calBtn      *walk.PushButton
	txBtn       *walk.PushButton
	rxBtn       *walk.PushButton
	logView     *walk.TextEdit

	syncingPorts bool
}

// NewMainWindowView создает новый экземпляр MainWindowView.
func NewMainWindowView(mainCtrl *controller.MainController) *MainWindowView {
	return &MainWindowView{mainCtrl: mainCtrl}
}

// Create создает и инициализирует главное окно приложения.
func (w *MainWindowView) Create() error {
	labelFont := d.Font{Family: "Segoe UI", PointSize: 10, Bold: true}
	buttonFont := d.Font{Family: "Segoe UI", PointSize: 10, Bold: true}

	err := d.MainWindow{
		AssignTo:   &w.mw,
		Title:      "Laser Link Controller",
		Size:       d.Size{Width: 540, Height: 480},
		MinSize:    d.Size{Width: 540, Height: 480},
		Background: d.SolidColorBrush{Color: backgroundColor},
		Layout:     d.VBox{Margins: d.Margins{Left: 10, Top: 8, Right: 10, Bottom: 8}, Spacing: 6},
		Children: []d.Widget{
			// --- Ключ доступа ---
			d.Label{Text: "Enter API Key:", Font: labelFont, TextAlignment: d.AlignCenter},
			d.LineEdit{
				AssignTo:     &w.keyEdit,
				PasswordMode: true,
				MaxSize:      d.Size{Width: 260},
				Font:         d.Font{Family: "Consolas", PointSize: 10},
			},

			// --- Выбор порта ---
			d.Label{Text: "Select COM Port:", Font: labelFont, TextAlignment: d.AlignCenter},
			d.ComboBox{
				AssignTo:              &w.portCombo,
				Editable:              false,
				MaxSize:               d.Size{Width: 260},
				OnCurrentIndexChanged: w.onPortSelected,
			},

			// --- Подключение / обновление списка ---
			d.Composite{
				Layout: d.HBox{MarginsZero: true, Spacing: 8},
				Children: []d.Widget{
					d.HSpacer{},
					d.PushButton{AssignTo: &w.connectBtn, Text: "Connect", Font: buttonFont, MinSize: d.Size{Width: 120}, OnClicked: w.onConnectClicked},
					d.PushButton{Text: "Refresh Ports", Font: buttonFont, MinSize: d.Size{Width: 120}, OnClicked: w.onRefreshClicked},
					d.HSpacer{},
				},
			},

			// --- Статус ---
			d.Label{
				AssignTo:      &w.statusLabel,
				Text:          "Status: Disconnected",
				Font:          labelFont,
				TextColor:     statusBadColor,
				TextAlignment: d.AlignCenter,
			},

			// --- Команды ---
			d.Composite{
				Layout: d.HBox{MarginsZero: true, Spacing: 10},
				Children: []d.Widget{
					d.HSpacer{},
					d.PushButton{AssignTo: &w.calBtn, Text: "CAL", Font: buttonFont, MinSize: d.Size{Width: 120}, OnClicked: w.onCalClicked},
					d.PushButton{AssignTo: &w.txBtn, Text: "TX", Font: buttonFont, MinSize: d.Size{Width: 120}, OnClicked: w.onTxClicked},
					d.PushButton{AssignTo: &w.rxBtn, Text: "RX", Font: buttonFont, MinSize: d.Size{Width: 120}, OnClicked: w.onRxClicked},
					d.HSpacer{},
				},
			},

			// --- Журнал ---
			d.Label{Text: "Log Output:", Font: labelFont, TextAlignment: d.AlignCenter},
			d.TextEdit{
				AssignTo:   &w.logView,
				ReadOnly:   true,
				VScroll:    true,
				Background: d.SolidColorBrush{Color: logColor},
				Font:       d.Font{Family: "Consolas", PointSize: 9},
				MinSize:    d.Size{Height: 180},
			},
		},
	}.Create()
	if err != nil {
		return err
	}

	// Строки от устройства выполняются в потоке окна
	w.mainCtrl.SetPoster(w.mw.Synchronize)
	w.mainCtrl.SetOnUpdate(w.updateUI)
	w.mainCtrl.Journal().Subscribe(func(e models.LogEntry) {
		w.mw.Synchronize(func() { w.appendLog(e) })
	})

	w.mainCtrl.Initialize()

	// Закрытие окна освобождает порт
	w.mw.Closing().Attach(func(canceled *bool, reason walk.CloseReason) {
		w.mainCtrl.Shutdown()
	})
	w.closeOnSignal()

	return nil
}

// Run запускает главный цикл обработки сообщений окна.
func (w *MainWindowView) Run() {
	w.mw.Run()
}

// closeOnSignal закрывает окно (и порт вместе с ним) по Ctrl+C или SIGTERM.
func (w *MainWindowView) closeOnSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		w.mw.Synchronize(func() {
			_ = w.mw.Close()
		})
	}()
}

// updateUI обновляет состояние интерфейса в зависимости от данных из ViewModel.
func (w *MainWindowView) updateUI() {
	w.mw.Synchronize(func() {
		vm := w.mainCtrl.ViewModel()

		w.syncingPorts = true
		_ = w.portCombo.SetModel(vm.Ports.Items)
		for i, item := range vm.Ports.Items {
			if item == vm.Ports.Selected {
				_ = w.portCombo.SetCurrentIndex(i)
				break
			}
		}
		w.syncingPorts = false

		_ = w.statusLabel.SetText(vm.StatusText)
		if vm.StatusOK {
			w.statusLabel.SetTextColor(statusOKColor)
		} else {
			w.statusLabel.SetTextColor(statusBadColor)
		}
		w.portCombo.SetEnabled(vm.PortSelectEnabled)
	})
}

// appendLog добавляет строку в журнал и прокручивает его вниз.
func (w *MainWindowView) appendLog(e models.LogEntry) {
	text := strings.ReplaceAll(e.String(), "\n", " ") + "\r\n"
	end := w.logView.TextLength()
	w.logView.SetTextSelection(end, end)
	w.logView.ReplaceSelectedText(text, false)
	w.logView.SendMessage(win.EM_SCROLLCARET, 0, 0)
}

func (w *MainWindowView) onPortSelected() {
	if w.syncingPorts {
		return
	}
	w.mainCtrl.SelectPort(w.portCombo.Text())
}

func (w *MainWindowView) onRefreshClicked() {
	w.mainCtrl.RefreshPorts()
}

func (w *MainWindowView) onConnectClicked() {
	if err := w.mainCtrl.Connect(w.keyEdit.Text()); err != nil {
		w.showError(err)
	}
}

func (w *MainWindowView) onCalClicked() {
	if err := w.mainCtrl.Calibrate(); err != nil {
		w.showError(err)
	}
}

func (w *MainWindowView) onRxClicked() {
	if err := w.mainCtrl.Receive(); err != nil {
		w.showError(err)
	}
}

func (w *MainWindowView) onTxClicked() {
	// Без подключения текст не спрашиваем
	if err := w.mainCtrl.RequireConnection(); err != nil {
		w.showError(err)
		return
	}
	msg, ok := dialogs.AskTransmitMessage(w.mw)
	if !ok {
		return
	}
	if err := w.mainCtrl.Transmit(msg); err != nil {
		w.showError(err)
	}
}

// showError показывает модальное сообщение для ошибки действия оператора.
func (w *MainWindowView) showError(err error) {
	n := controller.NoticeFor(err)
	style := walk.MsgBoxIconError
	if n.Level == controller.NoticeWarning {
		style = walk.MsgBoxIconWarning
	}
	walk.MsgBox(w.mw, n.Title, n.Text, style)
}
