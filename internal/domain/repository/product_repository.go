package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos que escriben Quantity (SetQuantity, IncrementQuantity) solo deben
// invocarse desde el motor de inventario, dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Solo tiene
	// sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// Update actualiza los campos editables del producto, excepto Quantity.
	Update(product *entity.Product) error
	SetQuantity(id string, quantity int64, updatedAt time.Time) error
	IncrementQuantity(id string, delta int64, updatedAt time.Time) error
	List() ([]*entity.Product, error)
	Delete(id string) error
}
