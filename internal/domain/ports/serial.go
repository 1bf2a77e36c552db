package ports

import "laserlink/internal/domain/models"

// PortLister перечисляет порты, видимые в системе.
// Открытие порта описано интерфейсом linkport.Opener.
type PortLister interface {
	// ListPorts возвращает имена портов в стабильном порядке.
	// Ошибки перечисления не возвращаются: результат просто пустой.
	ListPorts() []string

	// DescribePorts возвращает подробности по портам, если платформа их даёт.
	DescribePorts() ([]models.PortInfo, error)
}
