//go:build windows

package view

import (
	"laserlink/internal/ui/controller"
)

// Run запускает графическое приложение
func Run(mainController *controller.MainController) error {
	// Создание основного окна
	mw := NewMainWindowView(mainController)

	// Создание и инициализация окна
	if err := mw.Create(); err != nil {
		return err
	}

	// Запуск главного цикла сообщений
	mw.Run()
	return nil
}
