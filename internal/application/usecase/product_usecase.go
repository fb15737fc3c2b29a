package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso del ciclo de vida de productos. Toda operación
// que afecta Quantity delega en el motor de inventario; este caso de uso nunca
// escribe la cantidad directamente.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	deliveryRepo repository.DeliveryRepository
	engine       *ledger.Engine
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryRepository,
	engine *ledger.Engine,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		deliveryRepo: deliveryRepo,
		engine:       engine,
	}
}

// Create crea un producto. Si trae stock inicial mayor que cero y se conoce el
// actor, registra además la entrada seed en el historial (solo auditoría: la
// cantidad ya quedó escrita en el alta).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, actor Actor) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = entity.UnitPiezas
	}
	if !entity.ValidUnit(unit) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.RecommendedQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:                  uuid.New().String(),
		Name:                name,
		Description:         in.Description,
		Unit:                unit,
		Quantity:            in.Quantity,
		RecommendedQuantity: in.RecommendedQuantity,
		CreatedBy:           actor.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	if in.Quantity > 0 && actor.ID != "" {
		if _, err := uc.engine.SeedInitialStock(ctx, product.ID, in.Quantity, actor.ID); err != nil {
			return nil, err
		}
	}
	return toProductResponse(product, actor), nil
}

// List lista todos los productos, más reciente primero, con la forma de salida
// según el privilegio del actor.
func (uc *ProductUseCase) List(ctx context.Context, actor Actor) (*dto.ProductListResponse, error) {
	list, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, actor))
	}
	return &dto.ProductListResponse{Products: items}, nil
}

// Get obtiene un producto por ID con la forma según privilegio.
func (uc *ProductUseCase) Get(ctx context.Context, id string, actor Actor) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, actor), nil
}

// Update aplica una actualización parcial. Los campos que no afectan inventario
// se escriben directo; un cambio de Quantity pasa por el motor (auditando solo
// los incrementos, como en el flujo de edición original).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, actor Actor) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	if in.RecommendedQuantity != nil {
		if *in.RecommendedQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.RecommendedQuantity = *in.RecommendedQuantity
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity != product.Quantity {
		updated, err := uc.engine.AdjustQuantity(ctx, product.ID, *in.Quantity, actor.ID)
		if err != nil {
			return nil, err
		}
		product.Quantity = updated.Quantity
		product.UpdatedAt = updated.UpdatedAt
	}
	return toProductResponse(product, actor), nil
}

// Delete elimina el producto y su historial de entregas en cascada.
func (uc *ProductUseCase) Delete(ctx context.Context, id string, actor Actor) error {
	return uc.engine.DeleteProductCascade(ctx, id)
}

// Deliver registra la entrega de un producto a un usuario (salida de
// inventario) vía el motor.
func (uc *ProductUseCase) Deliver(ctx context.Context, productID string, in dto.DeliverProductRequest, actor Actor) (*dto.DeliverProductResponse, error) {
	product, delivery, err := uc.engine.ApplyDelivery(ctx, ledger.ApplyDeliveryInput{
		ProductID: productID,
		Type:      entity.DeliveryTypeOut,
		Quantity:  in.Quantity,
		ToUserID:  in.ToUserID,
		ActorID:   actor.ID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeliverProductResponse{
		Product:  *toProductResponse(product, actor),
		Delivery: *toDeliveryResponse(delivery),
	}, nil
}

// ListDeliveries lista el historial de entregas de un producto, más reciente
// primero, con las identidades de usuario resueltas. Solo actores privilegiados.
func (uc *ProductUseCase) ListDeliveries(ctx context.Context, productID string, actor Actor) (*dto.DeliveryListResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.deliveryRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDeliveryResponse(d))
	}
	return &dto.DeliveryListResponse{Deliveries: items}, nil
}

// toProductResponse forma la salida según privilegio: el admin ve las
// cantidades exactas; el resto recibe solo el indicador de stock bajo.
func toProductResponse(p *entity.Product, actor Actor) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if actor.IsAdmin() {
		qty := p.Quantity
		rec := p.RecommendedQuantity
		out.Quantity = &qty
		out.RecommendedQuantity = &rec
		out.CreatedBy = p.CreatedBy
		return out
	}
	low := p.IsLowStock()
	out.IsLowStock = &low
	return out
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	out := &dto.DeliveryResponse{
		ID:          d.ID,
		Type:        d.Type,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
		DeliveredAt: d.DeliveredAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.ToUser != nil {
		out.ToUser = toUserRefResponse(d.ToUser)
	} else if d.ToUserID != "" {
		out.ToUser = &dto.UserRefResponse{ID: d.ToUserID}
	}
	if d.DeliveredByUser != nil {
		out.DeliveredBy = toUserRefResponse(d.DeliveredByUser)
	} else if d.DeliveredBy != "" {
		out.DeliveredBy = &dto.UserRefResponse{ID: d.DeliveredBy}
	}
	return out
}

func toUserRefResponse(u *entity.UserRef) *dto.UserRefResponse {
	return &dto.UserRefResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
