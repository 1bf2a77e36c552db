package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"laserlink/internal/domain/ports"
)

var exit = os.Exit

// SlogLogger реализует интерфейс ports.Logger поверх log/slog.
// Сообщения форматируются в стиле Printf, уровень передаётся в slog.
type SlogLogger struct {
	logger *slog.Logger
}

// New создаёт логгер с произвольным обработчиком slog.
func New(handler slog.Handler) ports.Logger {
	return &SlogLogger{logger: slog.New(handler)}
}

// NewText создаёт текстовый логгер (используется окном приложения, пишет в stderr).
func NewText(w io.Writer, debug bool) ports.Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(debug)}))
}

// NewJSONFile создаёт JSON-логгер в файл. Консольный интерфейс занимает stdout,
// поэтому диагностика уходит в файл. Возвращает функцию закрытия файла.
func NewJSONFile(path string, debug bool) (ports.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level(debug)})), f.Close, nil
}

// Discard возвращает логгер, который ничего не пишет.
func Discard() ports.Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (l *SlogLogger) log(lvl slog.Level, msg string, args []interface{}) {
	if !l.logger.Enabled(context.Background(), lvl) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.Log(context.Background(), lvl, msg)
}

// Debug выводит отладочную информацию.
func (l *SlogLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args)
}

// Info выводит информационные сообщения.
func (l *SlogLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args)
}

// Warn выводит предупреждения.
func (l *SlogLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args)
}

// Error выводит ошибки.
func (l *SlogLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args)
}

// Fatal выводит критические ошибки и завершает программу.
func (l *SlogLogger) Fatal(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args)
	exit(1)
}
