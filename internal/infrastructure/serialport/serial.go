package serialport

import (
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"laserlink/internal/domain/models"
	"laserlink/internal/domain/ports"
	"laserlink/pkg/linkport"
)

// System реализует linkport.Opener и ports.PortLister поверх go.bug.st/serial.
type System struct {
	log ports.Logger
}

// NewSystem создаёт доступ к реальным последовательным портам.
func NewSystem(log ports.Logger) *System {
	return &System{log: log}
}

// Open открывает порт в режиме 8N1.
func (s *System) Open(name string, mode linkport.Mode) (linkport.Port, error) {
	dataBits := mode.DataBits
	if dataBits == 0 {
		dataBits = 8
	}
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: dataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPorts возвращает отсортированный список COM-портов.
// Ошибка перечисления пишется в лог и даёт пустой список.
func (s *System) ListPorts() []string {
	list, err := serial.GetPortsList()
	if err != nil {
		if s.log != nil {
			s.log.Warn("port enumeration failed: %v", err)
		}
		return nil
	}
	sort.Strings(list)
	return list
}

// DescribePorts возвращает подробности по портам (USB VID/PID, серийный номер).
func (s *System) DescribePorts() ([]models.PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	out := make([]models.PortInfo, 0, len(details))
	for _, d := range details {
		out = append(out, models.PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
