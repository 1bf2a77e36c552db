package linkport

import "time"

const (
	// DefaultBaudRate скорость, на которой работает прошивка устройства.
	DefaultBaudRate = 9600
	// DefaultReadTimeout таймаут одного чтения строки.
	DefaultReadTimeout = time.Second
)

// Mode параметры открытия порта.
type Mode struct {
	BaudRate int
	DataBits int
}

// Port минимальный набор операций над открытым последовательным портом.
// Read по истечении таймаута возвращает (0, nil), после Close возвращает ошибку.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Opener открывает порт по имени.
type Opener interface {
	Open(name string, mode Mode) (Port, error)
}

// Logger диагностика сессии. Подходит любой логгер с printf-методами.
type Logger interface {
	Debug(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// State снимок состояния сессии. Нулевое значение означает "порт закрыт".
type State struct {
	IsOpen      bool
	PortName    string
	BaudRate    int
	ReadTimeout time.Duration
}
