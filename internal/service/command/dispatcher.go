// Package command переводит действия оператора (CAL, TX, RX) в строки команд устройства.
package command

import (
	"strings"

	"laserlink/internal/domain/models"
)

// Link канал к устройству.
type Link interface {
	IsConnected() bool
	WriteLine(line string) error
}

// Sink журнал оператора.
type Sink interface {
	Append(text string) models.LogEntry
}

// Dispatcher отправляет команды и записывает их в журнал как "> <команда>".
type Dispatcher struct {
	link Link
	sink Sink
}

// NewDispatcher создаёт диспетчер команд.
func NewDispatcher(link Link, sink Sink) *Dispatcher {
	return &Dispatcher{link: link, sink: sink}
}

// Calibrate отправляет CAL.
func (d *Dispatcher) Calibrate() error {
	return d.Send(models.Command{Kind: models.CommandCalibrate})
}

// Receive отправляет RX.
func (d *Dispatcher) Receive() error {
	return d.Send(models.Command{Kind: models.CommandReceive})
}

// Transmit отправляет "TX <payload>". Пробелы по краям обрезаются, пустое сообщение отклоняется.
func (d *Dispatcher) Transmit(payload string) error {
	if !d.link.IsConnected() {
		return models.ErrNotConnected
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return models.ErrEmptyPayload
	}
	return d.Send(models.Command{Kind: models.CommandTransmit, Payload: payload})
}

// Send отправляет одну команду. Без открытого соединения ничего не пишет.
func (d *Dispatcher) Send(cmd models.Command) error {
	if !d.link.IsConnected() {
		return models.ErrNotConnected
	}
	line := cmd.Line()
	if err := d.link.WriteLine(line); err != nil {
		return err
	}
	d.sink.Append("> " + line)
	return nil
}
