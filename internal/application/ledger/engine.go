package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Engine es el motor de inventario: único componente autorizado a escribir
// Product.Quantity. Mantiene el invariante
//
//	quantity == cantidad inicial + Σ(entrega in ? +q : -q)
//
// aplicando cada operación como una transacción (bloqueo de fila con
// SELECT FOR UPDATE y Commit/Rollback vía TxRunner).
type Engine struct {
	txRunner TxRunner
	userRepo repository.UserRepository
}

// NewEngine construye el motor de inventario.
func NewEngine(txRunner TxRunner, userRepo repository.UserRepository) *Engine {
	return &Engine{txRunner: txRunner, userRepo: userRepo}
}

// ApplyDeliveryInput entrada para registrar una entrega.
// ToUserID es obligatorio en salidas (type=out) e ignorado en entradas.
type ApplyDeliveryInput struct {
	ProductID string
	Type      string
	Quantity  int64
	ToUserID  string
	ActorID   string
}

// ApplyDelivery crea una entrega y ajusta Product.Quantity por el delta con
// signo (+q entrada, -q salida) en una sola transacción. En salidas valida que
// el usuario destino exista y que haya inventario suficiente.
func (e *Engine) ApplyDelivery(ctx context.Context, in ApplyDeliveryInput) (*entity.Product, *entity.Delivery, error) {
	if in.Quantity <= 0 || in.ActorID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Type != entity.DeliveryTypeIn && in.Type != entity.DeliveryTypeOut {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Type == entity.DeliveryTypeOut {
		if in.ToUserID == "" {
			return nil, nil, domain.ErrInvalidInput
		}
		toUser, err := e.userRepo.GetByID(in.ToUserID)
		if err != nil {
			return nil, nil, err
		}
		if toUser == nil {
			return nil, nil, domain.ErrUserNotFound
		}
	}

	now := time.Now()
	var (
		product  *entity.Product
		delivery *entity.Delivery
	)
	err := e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		// Bloquea la fila del producto para serializar escrituras concurrentes
		p, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		delta := in.Quantity
		if in.Type == entity.DeliveryTypeOut {
			if p.Quantity < in.Quantity {
				return domain.ErrInsufficientStock
			}
			delta = -in.Quantity
		}
		if err := productRepo.IncrementQuantity(p.ID, delta, now); err != nil {
			return err
		}
		d := &entity.Delivery{
			ID:          uuid.New().String(),
			Type:        in.Type,
			ProductID:   p.ID,
			ToUserID:    in.ToUserID,
			Quantity:    in.Quantity,
			DeliveredBy: in.ActorID,
			DeliveredAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.Type == entity.DeliveryTypeIn {
			d.ToUserID = ""
		}
		if err := deliveryRepo.Create(d); err != nil {
			return err
		}
		p.Quantity += delta
		p.UpdatedAt = now
		product, delivery = p, d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return product, delivery, nil
}

// AmendDelivery corrige retroactivamente la cantidad de una entrega y ajusta el
// producto por la diferencia, en una sola transacción. Si la nueva cantidad es
// igual a la actual no modifica nada (idempotente). Si el ajuste con signo es
// negativo (aumentar una salida o reducir una entrada) valida que el inventario
// lo pueda absorber; si no, falla con ErrInsufficientStock sin tocar estado.
func (e *Engine) AmendDelivery(ctx context.Context, deliveryID string, newQuantity int64) (*entity.Product, *entity.Delivery, error) {
	if newQuantity <= 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var (
		product  *entity.Product
		delivery *entity.Delivery
	)
	err := e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		d, err := deliveryRepo.GetByID(deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		p, err := productRepo.GetForUpdate(d.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if d.Quantity == newQuantity {
			product, delivery = p, d
			return nil
		}
		delta := newQuantity - d.Quantity
		inventoryDelta := delta
		if d.Type == entity.DeliveryTypeOut {
			inventoryDelta = -delta
		}
		if inventoryDelta < 0 && p.Quantity < -inventoryDelta {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.IncrementQuantity(p.ID, inventoryDelta, now); err != nil {
			return err
		}
		if err := deliveryRepo.UpdateQuantity(d.ID, newQuantity, now); err != nil {
			return err
		}
		p.Quantity += inventoryDelta
		p.UpdatedAt = now
		d.Quantity = newQuantity
		d.UpdatedAt = now
		product, delivery = p, d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return product, delivery, nil
}

// DeleteProductCascade elimina el producto y todo su historial de entregas en
// una sola transacción, sin dejar entregas huérfanas.
func (e *Engine) DeleteProductCascade(ctx context.Context, productID string) error {
	return e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := deliveryRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		return productRepo.Delete(productID)
	})
}

// SeedInitialStock registra una entrada de auditoría por una cantidad inicial
// ya aplicada al producto (alta con stock, o incremento por edición directa).
// NO toca Product.Quantity: el valor ya fue escrito por la operación que la
// originó, y volver a sumarlo duplicaría el inventario.
func (e *Engine) SeedInitialStock(ctx context.Context, productID string, quantity int64, actorID string) (*entity.Delivery, error) {
	if quantity <= 0 || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	d := &entity.Delivery{
		ID:          uuid.New().String(),
		Type:        entity.DeliveryTypeIn,
		ProductID:   productID,
		Quantity:    quantity,
		DeliveredBy: actorID,
		DeliveredAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := e.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		return deliveryRepo.Create(d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AdjustQuantity fija la cantidad del producto por edición directa
// (reconciliación). Toda edición de cantidad pasa por aquí para mantener la
// auditoría consistente: un incremento registra una entrada seed en la misma
// transacción; un decremento se acepta sin registro de auditoría, igual que el
// flujo de edición original.
func (e *Engine) AdjustQuantity(ctx context.Context, productID string, newQuantity int64, actorID string) (*entity.Product, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var product *entity.Product
	err := e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		delta := newQuantity - p.Quantity
		if delta == 0 {
			product = p
			return nil
		}
		if err := productRepo.SetQuantity(p.ID, newQuantity, now); err != nil {
			return err
		}
		if delta > 0 && actorID != "" {
			d := &entity.Delivery{
				ID:          uuid.New().String(),
				Type:        entity.DeliveryTypeIn,
				ProductID:   p.ID,
				Quantity:    delta,
				DeliveredBy: actorID,
				DeliveredAt: now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := deliveryRepo.Create(d); err != nil {
				return err
			}
		}
		p.Quantity = newQuantity
		p.UpdatedAt = now
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
