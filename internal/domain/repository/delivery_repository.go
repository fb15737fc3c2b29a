package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DeliveryRepository define el puerto de persistencia para el historial de entregas.
// Las entregas nunca se borran individualmente; DeleteByProduct existe solo para
// el borrado en cascada del producto.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	// UpdateQuantity modifica solo la cantidad de la entrega (ProductID y Type
	// son inmutables).
	UpdateQuantity(id string, quantity int64, updatedAt time.Time) error
	// ListByProduct lista las entregas de un producto, más reciente primero,
	// con ToUser y DeliveredByUser resueltos para presentación.
	ListByProduct(productID string) ([]*entity.Delivery, error)
	DeleteByProduct(productID string) error
}
