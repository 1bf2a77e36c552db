package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"laserlink/internal/ui/controller"
)

// postMsg функция из фоновой горутины, которую нужно выполнить в цикле Update.
type postMsg struct {
	fn func()
}

// updateMsg контроллер сообщил об изменении состояния.
type updateMsg struct{}

type focusArea int

const (
	focusKey focusArea = iota
	focusPorts
)

const helpText = "tab focus • ↑/↓ port • enter/F2 connect • F3 disconnect • F5 refresh • F6 CAL • F7 TX • F8 RX • esc quit"

// Model консольный вариант главного окна. Состояние приложения хранит контроллер.
type Model struct {
	ctrl *controller.MainController

	keyInput textinput.Model
	txInput  textinput.Model
	logView  viewport.Model

	focus     focusArea
	prompting bool
	notice    *controller.Notice
	quitting  bool

	width  int
	height int
}

// New создаёт модель поверх контроллера. Контроллер должен быть уже инициализирован.
func New(ctrl *controller.MainController) Model {
	key := textinput.New()
	key.Prompt = ""
	key.Placeholder = "API key"
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '*'
	key.CharLimit = 64
	key.Width = 30
	key.Focus()

	tx := textinput.New()
	tx.Prompt = "> "
	tx.Placeholder = "message to send"
	tx.CharLimit = 256
	tx.Width = 40

	m := Model{
		ctrl:     ctrl,
		keyInput: key,
		txInput:  tx,
		logView:  viewport.New(64, 12),
		focus:    focusKey,
	}
	m.refreshLog()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		msg.fn()
		m.refreshLog()
		return m, nil

	case updateMsg:
		m.refreshLog()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = max(20, msg.Width-2)
		m.logView.Height = max(5, msg.Height-16)
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		// Любая клавиша закрывает сообщение
		if m.notice != nil {
			m.notice = nil
			return m, nil
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.updateMain(msg)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusKey {
			m.focus = focusPorts
			m.keyInput.Blur()
			return m, nil
		}
		m.focus = focusKey
		return m, m.keyInput.Focus()
	case "enter", "f2":
		m.report(m.ctrl.Connect(m.keyInput.Value()))
		return m, nil
	case "f3":
		m.report(m.ctrl.Disconnect())
		return m, nil
	case "f5":
		m.ctrl.RefreshPorts()
		m.refreshLog()
		return m, nil
	case "f6":
		m.report(m.ctrl.Calibrate())
		return m, nil
	case "f7":
		// Без подключения текст не спрашиваем
		if err := m.ctrl.RequireConnection(); err != nil {
			m.report(err)
			return m, nil
		}
		m.prompting = true
		m.keyInput.Blur()
		m.txInput.Reset()
		return m, m.txInput.Focus()
	case "f8":
		m.report(m.ctrl.Receive())
		return m, nil
	case "up", "down":
		if m.focus == focusPorts {
			m.movePort(msg.String() == "down")
			return m, nil
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	if m.focus == focusKey {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.txInput.Blur()
		return m, m.restoreFocus()
	case "enter":
		payload := m.txInput.Value()
		m.prompting = false
		m.txInput.Blur()
		m.report(m.ctrl.Transmit(payload))
		return m, m.restoreFocus()
	}
	var cmd tea.Cmd
	m.txInput, cmd = m.txInput.Update(msg)
	return m, cmd
}

func (m *Model) restoreFocus() tea.Cmd {
	if m.focus == focusKey {
		return m.keyInput.Focus()
	}
	return nil
}

func (m *Model) movePort(down bool) {
	vm := m.ctrl.ViewModel()
	items := vm.Ports.Items
	idx := 0
	for i, it := range items {
		if it == vm.Ports.Selected {
			idx = i
			break
		}
	}
	if down {
		idx = (idx + 1) % len(items)
	} else {
		idx = (idx - 1 + len(items)) % len(items)
	}
	m.ctrl.SelectPort(items[idx])
}

// report показывает сообщение об ошибке и обновляет журнал.
func (m *Model) report(err error) {
	if err != nil {
		n := controller.NoticeFor(err)
		m.notice = &n
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logView.SetContent(strings.Join(m.ctrl.Journal().Lines(), "\n"))
	m.logView.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	vm := m.ctrl.ViewModel()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Laser Link Controller"))
	b.WriteString("\n\n")

	keyLabel, portLabel := labelStyle, labelStyle
	if m.focus == focusKey {
		keyLabel = focusedLabelStyle
	} else {
		portLabel = focusedLabelStyle
	}

	b.WriteString(keyLabel.Render("Enter API Key: "))
	b.WriteString(m.keyInput.View())
	b.WriteString("\n")

	b.WriteString(portLabel.Render("Select COM Port:"))
	b.WriteString("\n")
	for _, p := range vm.Ports.Items {
		if p == vm.Ports.Selected {
			b.WriteString(selectedPortStyle.Render("› " + p))
		} else {
			b.WriteString(portStyle.Render(p))
		}
		b.WriteString("\n")
	}

	if vm.StatusOK {
		b.WriteString(statusOKStyle.Render(vm.StatusText))
	} else {
		b.WriteString(statusBadStyle.Render(vm.StatusText))
	}
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(labelStyle.Render("Enter message to send:"))
		b.WriteString("\n")
		b.WriteString(m.txInput.View())
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Log Output:"))
	b.WriteString("\n")
	b.WriteString(logPaneStyle.Render(m.logView.View()))
	b.WriteString("\n")

	if m.notice != nil {
		style := noticeErrorStyle
		if m.notice.Level == controller.NoticeWarning {
			style = noticeWarnStyle
		}
		b.WriteString(style.Render(lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(m.notice.Title), m.notice.Text)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}
