package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"laserlink/internal/ui/controller"
)

// Run запускает консольный интерфейс и возвращается после выхода.
// preferredPort выбирается в списке, если он там есть.
// Соединение закрывается на любом пути завершения (esc, Ctrl+C, SIGTERM).
func Run(ctrl *controller.MainController, preferredPort string, opts ...tea.ProgramOption) error {
	defer ctrl.Shutdown()

	ctrl.Initialize()
	if preferredPort != "" {
		ctrl.SelectPort(preferredPort)
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(New(ctrl), opts...)

	// Строки от устройства и изменения состояния приходят в цикл Update
	ctrl.SetPoster(func(fn func()) { p.Send(postMsg{fn: fn}) })
	ctrl.SetOnUpdate(func() { go p.Send(updateMsg{}) })

	_, err := p.Run()
	return err
}
