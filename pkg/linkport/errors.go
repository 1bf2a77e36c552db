package linkport

import (
	"errors"
	"fmt"
)

// ErrClosed возвращается операциями над закрытой сессией.
var ErrClosed = errors.New("linkport: session is closed")

// ConnectionError порт не удалось открыть (занят, не существует, нет прав).
// Сообщение платформы передаётся без изменений.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not open port %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransportError ошибка ввода-вывода на уже открытом порту.
type TransportError struct {
	Op   string // "read" или "write"
	Port string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("linkport: %s %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
