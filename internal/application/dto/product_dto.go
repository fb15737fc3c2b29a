package dto

import "time"

// CreateProductRequest entrada para crear un producto.
// Quantity es el stock inicial: si es mayor que cero se registra además una
// entrada seed en el historial de entregas.
type CreateProductRequest struct {
	Name                string `json:"name" validate:"required,min=1,max=200"`
	Description         string `json:"description" validate:"max=2000"`
	Unit                string `json:"unit" validate:"omitempty,oneof=piezas metros kilos litros cajas paquetes unidades"`
	Quantity            int64  `json:"quantity" validate:"min=0"`
	RecommendedQuantity int64  `json:"recommended_quantity" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto. Enumera de forma
// explícita los campos parchables; un puntero nil significa "sin cambio".
// Un cambio de Quantity pasa por el motor de inventario (reconciliación).
type UpdateProductRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string `json:"description" validate:"omitempty,max=2000"`
	Unit                *string `json:"unit" validate:"omitempty,oneof=piezas metros kilos litros cajas paquetes unidades"`
	Quantity            *int64  `json:"quantity" validate:"omitempty,min=0"`
	RecommendedQuantity *int64  `json:"recommended_quantity" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
// Para usuarios no privilegiados Quantity y RecommendedQuantity se omiten y se
// envía IsLowStock; los números crudos nunca salen hacia esos usuarios.
type ProductResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Unit                string    `json:"unit"`
	Quantity            *int64    `json:"quantity,omitempty"`
	RecommendedQuantity *int64    `json:"recommended_quantity,omitempty"`
	IsLowStock          *bool     `json:"is_low_stock,omitempty"`
	CreatedBy           string    `json:"created_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}
