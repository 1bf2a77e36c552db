package models

// NoPortsSentinel отображается в списке портов, когда система не нашла ни одного.
// Выбор этого пункта не является валидным портом.
const NoPortsSentinel = "No ports found"

// PortList упорядоченный список идентификаторов портов и текущий выбор.
type PortList struct {
	Items    []string
	Selected string
}

// NewPortList строит список заново: при пустом наборе подставляет NoPortsSentinel,
// выбор сбрасывается на первый элемент.
func NewPortList(names []string) PortList {
	items := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			items = append(items, n)
		}
	}
	if len(items) == 0 {
		items = append(items, NoPortsSentinel)
	}
	return PortList{Items: items, Selected: items[0]}
}

// Select меняет выбор. Имена вне списка игнорируются.
func (l *PortList) Select(name string) bool {
	for _, it := range l.Items {
		if it == name {
			l.Selected = name
			return true
		}
	}
	return false
}

// HasValidSelection true, если выбран реальный порт.
func (l PortList) HasValidSelection() bool {
	return IsSelectablePort(l.Selected)
}

// IsSelectablePort проверяет, что имя порта можно передавать в Connect.
func IsSelectablePort(name string) bool {
	return name != "" && name != NoPortsSentinel
}

// PortInfo подробности о порте, если платформа их отдаёт (USB VID/PID и т.д.).
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}
