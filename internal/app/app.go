package app

import (
	"fmt"

	"laserlink/internal/config"
	"laserlink/internal/domain/ports"
	"laserlink/internal/infrastructure/logger"
	"laserlink/internal/infrastructure/serialport"
	"laserlink/internal/service/auth"
	"laserlink/internal/service/connection"
	"laserlink/internal/service/logsink"
	"laserlink/internal/ui/controller"
	"laserlink/internal/ui/viewmodel"
	"laserlink/pkg/linkport"
)

// Options зависимости приложения. Пустые поля заполняются значениями по умолчанию.
type Options struct {
	Settings config.Settings
	Logger   ports.Logger

	// Matcher проверка ключа; по умолчанию точное совпадение с config.AccessKey
	Matcher auth.Matcher

	// Opener и Lister доступ к портам; по умолчанию реальные порты
	// или эмулятор при Settings.Simulate
	Opener linkport.Opener
	Lister ports.PortLister
}

// App собранное приложение: сервисы и контроллер главного окна.
type App struct {
	Log        ports.Logger
	Journal    *logsink.Log
	Connection *connection.ConnectionService
	Controller *controller.MainController
	Emulator   *serialport.Emulator // nil, если работаем с реальными портами
}

// New собирает приложение.
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	linkCfg, err := opts.Settings.LinkConfig(log)
	if err != nil {
		return nil, fmt.Errorf("link config: %w", err)
	}

	a := &App{Log: log, Journal: logsink.New()}

	opener, lister := opts.Opener, opts.Lister
	if opener == nil || lister == nil {
		if opts.Settings.Simulate {
			a.Emulator = serialport.NewEmulator(opts.Settings.SimulatedPorts...)
			opener, lister = a.Emulator, a.Emulator
			log.Info("using emulated ports %v", opts.Settings.SimulatedPorts)
		} else {
			sys := serialport.NewSystem(log)
			opener, lister = sys, sys
		}
	}

	matcher := opts.Matcher
	if matcher == nil {
		matcher = auth.ExactKey(config.AccessKey)
	}

	a.Connection = connection.NewConnectionService(opener, lister, linkCfg, log)
	a.Controller = controller.NewMainController(
		viewmodel.NewMainViewModel(),
		auth.NewGate(matcher),
		a.Connection,
		a.Journal,
		log,
	)
	return a, nil
}

// Close закрывает соединение. Безопасно вызывать несколько раз.
func (a *App) Close() {
	a.Controller.Shutdown()
}
