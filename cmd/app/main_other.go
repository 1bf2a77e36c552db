//go:build !windows

package main

import (
	"os"

	"laserlink/internal/infrastructure/logger"
)

func main() {
	logger.NewText(os.Stderr, false).Fatal("the desktop window is available on Windows only; use laserterm")
}
