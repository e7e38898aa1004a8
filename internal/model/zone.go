package model

import "time"

// Zone is a collection zone managed by administrators. Citizens are
// assigned to a zone for collector lookups and each zone holds at
// most one collector.
type Zone struct {
	ID          uint64    // zonas.id
	Name        string    // zonas.nombre
	Description string    // zonas.descripcion
	CreatedAt   time.Time // zonas.created_at
	UpdatedAt   time.Time // zonas.updated_at
}
