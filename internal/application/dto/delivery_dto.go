package dto

import "time"

// DeliverProductRequest entrada para registrar la entrega de un producto a un
// usuario (salida de inventario).
type DeliverProductRequest struct {
	ToUserID string `json:"to_user_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// AmendDeliveryRequest entrada para corregir la cantidad de una entrega ya
// registrada. Producto y tipo son inmutables.
type AmendDeliveryRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// UserRefResponse identidad mínima de usuario dentro de una entrega.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// DeliveryResponse salida de una entrega del historial.
type DeliveryResponse struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	ProductID   string           `json:"product_id"`
	Quantity    int64            `json:"quantity"`
	ToUser      *UserRefResponse `json:"to_user,omitempty"`
	DeliveredBy *UserRefResponse `json:"delivered_by,omitempty"`
	DeliveredAt time.Time        `json:"delivered_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DeliveryListResponse historial de entregas de un producto, más reciente primero.
type DeliveryListResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

// DeliverProductResponse resultado de registrar una entrega: el producto con el
// inventario ya descontado y la entrega creada.
type DeliverProductResponse struct {
	Product  ProductResponse  `json:"product"`
	Delivery DeliveryResponse `json:"delivery"`
}

// AmendDeliveryResponse resultado de corregir una entrega.
type AmendDeliveryResponse struct {
	Product  ProductResponse  `json:"product"`
	Delivery DeliveryResponse `json:"delivery"`
}
