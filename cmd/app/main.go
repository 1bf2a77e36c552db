//go:build windows

package main

import (
	"os"

	"laserlink/internal/app"
	"laserlink/internal/config"
	"laserlink/internal/infrastructure/logger"
	"laserlink/internal/ui/view"
)

func main() {
	// 1. Initialize logger (infrastructure)
	log := logger.NewText(os.Stderr, false)
	log.Info("Application starting")

	// 2. Assemble services and controller
	a, err := app.New(app.Options{
		Settings: config.Default(),
		Logger:   log,
	})
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// 3. Run the GUI application
	log.Info("Initialization complete, starting GUI")
	if err := view.Run(a.Controller); err != nil {
		a.Close()
		log.Fatal("GUI error: %v", err)
	}
}
