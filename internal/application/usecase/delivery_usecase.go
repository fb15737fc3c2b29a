package usecase

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
)

// DeliveryUseCase casos de uso sobre entregas ya registradas. La única mutación
// permitida es la corrección de cantidad, que pasa por el motor de inventario.
type DeliveryUseCase struct {
	engine *ledger.Engine
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(engine *ledger.Engine) *DeliveryUseCase {
	return &DeliveryUseCase{engine: engine}
}

// Amend corrige la cantidad de una entrega; el motor ajusta el producto por la
// diferencia en la misma transacción. Con la misma cantidad no cambia nada.
func (uc *DeliveryUseCase) Amend(ctx context.Context, deliveryID string, in dto.AmendDeliveryRequest, actor Actor) (*dto.AmendDeliveryResponse, error) {
	product, delivery, err := uc.engine.AmendDelivery(ctx, deliveryID, in.Quantity)
	if err != nil {
		return nil, err
	}
	return &dto.AmendDeliveryResponse{
		Product:  *toProductResponse(product, actor),
		Delivery: *toDeliveryResponse(delivery),
	}, nil
}
