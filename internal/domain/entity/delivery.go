package entity

import "time"

// Tipos de entrega.
const (
	DeliveryTypeIn  = "in"  // entrada: incrementa el inventario
	DeliveryTypeOut = "out" // salida: descuenta el inventario
)

// Delivery representa un movimiento del historial de entregas de un producto.
// ProductID y Type son inmutables después de la creación; solo Quantity puede
// modificarse (vía el motor de inventario, que ajusta el producto en la misma
// transacción). Las entregas no se borran individualmente, solo en cascada al
// eliminar el producto.
type Delivery struct {
	ID          string
	Type        string
	ProductID   string
	ToUserID    string // requerido en salidas; vacío en entradas
	Quantity    int64  // siempre > 0
	DeliveredBy string
	DeliveredAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Referencias resueltas para presentación (listados). Nil si no se resolvieron.
	ToUser          *UserRef
	DeliveredByUser *UserRef
}

// SignedQuantity devuelve el efecto de la entrega sobre el inventario
// (+Quantity entrada, -Quantity salida).
func (d *Delivery) SignedQuantity() int64 {
	if d.Type == DeliveryTypeOut {
		return -d.Quantity
	}
	return d.Quantity
}
