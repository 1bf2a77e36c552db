package models

// CommandKind тип команды, отправляемой устройству.
type CommandKind string

const (
	CommandCalibrate CommandKind = "CAL"
	CommandTransmit  CommandKind = "TX"
	CommandReceive   CommandKind = "RX"
)

// Command одна текстовая строка команды. Перевод строки добавляет транспорт.
type Command struct {
	Kind    CommandKind
	Payload string
}

// Line возвращает текст команды без завершающего '\n'.
func (c Command) Line() string {
	if c.Kind == CommandTransmit {
		return string(c.Kind) + " " + c.Payload
	}
	return string(c.Kind)
}
