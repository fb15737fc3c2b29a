package entity

import "time"

// Unidades de medida válidas para Product.
const (
	UnitPiezas   = "piezas"
	UnitMetros   = "metros"
	UnitKilos    = "kilos"
	UnitLitros   = "litros"
	UnitCajas    = "cajas"
	UnitPaquetes = "paquetes"
	UnitUnidades = "unidades"
)

// ValidUnit indica si la unidad pertenece a la enumeración permitida.
func ValidUnit(unit string) bool {
	switch unit {
	case UnitPiezas, UnitMetros, UnitKilos, UnitLitros, UnitCajas, UnitPaquetes, UnitUnidades:
		return true
	}
	return false
}

// Product representa un producto del almacén.
// Quantity se modifica únicamente a través del motor de inventario (entregas y
// ajustes auditados); nunca por escritura directa desde otros componentes.
// RecommendedQuantity solo se usa para derivar el indicador de stock bajo.
type Product struct {
	ID                  string
	Name                string
	Description         string
	Unit                string
	Quantity            int64 // siempre >= 0; igual al efecto neto del historial de entregas
	RecommendedQuantity int64
	CreatedBy           string // ID del usuario creador; vacío si no se conoce
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLowStock deriva el indicador de stock bajo para usuarios no privilegiados.
func (p *Product) IsLowStock() bool {
	return p.RecommendedQuantity > 0 && p.Quantity < p.RecommendedQuantity
}
