package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

type productFixture struct {
	store *memory.Store
	uc    *usecase.ProductUseCase
	admin usecase.Actor
	user  usecase.Actor
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	admin := &entity.User{ID: uuid.New().String(), Name: "Admin", Email: "admin@test.local", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	user := &entity.User{ID: uuid.New().String(), Name: "Maria", Email: "maria@test.local", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Users().Create(admin))
	require.NoError(t, store.Users().Create(user))
	engine := ledger.NewEngine(store.TxRunner(), store.Users())
	return &productFixture{
		store: store,
		uc:    usecase.NewProductUseCase(store.Products(), store.Deliveries(), engine),
		admin: usecase.Actor{ID: admin.ID, Role: entity.RoleAdmin},
		user:  usecase.Actor{ID: user.ID, Role: entity.RoleUser},
	}
}

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }

func TestProductCreate_ConStockInicialRegistraEntradaSeed(t *testing.T) {
	f := newProductFixture(t)

	out, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Cable UTP",
		Unit:     entity.UnitMetros,
		Quantity: 50,
	}, f.admin)
	require.NoError(t, err)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, int64(50), *out.Quantity)

	// La cantidad NO se duplicó: el seed es solo auditoría
	stored, err := f.store.Products().GetByID(out.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stored.Quantity)

	deliveries, err := f.store.Deliveries().ListByProduct(out.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, entity.DeliveryTypeIn, deliveries[0].Type)
	assert.Equal(t, int64(50), deliveries[0].Quantity)
	assert.Equal(t, f.admin.ID, deliveries[0].DeliveredBy)
}

func TestProductCreate_SinStockNoRegistraEntrada(t *testing.T) {
	f := newProductFixture(t)

	out, err := f.uc.Create(context.Background(), dto.CreateProductRequest{Name: "Guantes"}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitPiezas, out.Unit, "la unidad por defecto es piezas")

	deliveries, err := f.store.Deliveries().ListByProduct(out.ID)
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestProductCreate_EntradasInvalidas(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"nombre vacío", dto.CreateProductRequest{Name: "   "}},
		{"unidad desconocida", dto.CreateProductRequest{Name: "Cinta", Unit: "galones"}},
		{"cantidad negativa", dto.CreateProductRequest{Name: "Cinta", Quantity: -1}},
		{"recomendada negativa", dto.CreateProductRequest{Name: "Cinta", RecommendedQuantity: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.in, f.admin)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductGet_FormaSegunPrivilegio(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name:                "Tuercas",
		Quantity:            3,
		RecommendedQuantity: 10,
	}, f.admin)
	require.NoError(t, err)

	// El admin ve las cantidades exactas
	asAdmin, err := f.uc.Get(context.Background(), created.ID, f.admin)
	require.NoError(t, err)
	require.NotNil(t, asAdmin.Quantity)
	require.NotNil(t, asAdmin.RecommendedQuantity)
	assert.Equal(t, int64(3), *asAdmin.Quantity)
	assert.Equal(t, int64(10), *asAdmin.RecommendedQuantity)
	assert.Nil(t, asAdmin.IsLowStock)

	// El usuario común solo recibe la bandera de stock bajo
	asUser, err := f.uc.Get(context.Background(), created.ID, f.user)
	require.NoError(t, err)
	assert.Nil(t, asUser.Quantity, "los números crudos no salen hacia no privilegiados")
	assert.Nil(t, asUser.RecommendedQuantity)
	require.NotNil(t, asUser.IsLowStock)
	assert.True(t, *asUser.IsLowStock)
	assert.Empty(t, asUser.CreatedBy)
}

func TestProductGet_StockBajoSoloConRecomendada(t *testing.T) {
	f := newProductFixture(t)

	// Sin cantidad recomendada nunca hay stock bajo, ni con cantidad cero
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{Name: "Clavos"}, f.admin)
	require.NoError(t, err)
	out, err := f.uc.Get(context.Background(), created.ID, f.user)
	require.NoError(t, err)
	require.NotNil(t, out.IsLowStock)
	assert.False(t, *out.IsLowStock)

	// Con cantidad igual a la recomendada tampoco
	created2, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Pernos", Quantity: 10, RecommendedQuantity: 10,
	}, f.admin)
	require.NoError(t, err)
	out2, err := f.uc.Get(context.Background(), created2.ID, f.user)
	require.NoError(t, err)
	require.NotNil(t, out2.IsLowStock)
	assert.False(t, *out2.IsLowStock)
}

func TestProductGet_NoExiste(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.uc.Get(context.Background(), uuid.New().String(), f.admin)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_MasRecientePrimero(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Primero", "Segundo", "Tercero"} {
		_, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: name}, f.admin)
		require.NoError(t, err)
	}

	out, err := f.uc.List(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, out.Products, 3)
	assert.Equal(t, "Tercero", out.Products[0].Name)
	assert.Equal(t, "Primero", out.Products[2].Name)
}

func TestProductUpdate_ParcheSinCantidadNoTocaInventario(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Martillo", Quantity: 5,
	}, f.admin)
	require.NoError(t, err)

	out, err := f.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Name:        strp("Martillo de bola"),
		Description: strp("Mango de fibra"),
		Unit:        strp(entity.UnitUnidades),
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "Martillo de bola", out.Name)
	assert.Equal(t, "Mango de fibra", out.Description)
	assert.Equal(t, entity.UnitUnidades, out.Unit)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, int64(5), *out.Quantity)

	// Solo quedó la entrada seed del alta
	deliveries, err := f.store.Deliveries().ListByProduct(created.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

func TestProductUpdate_IncrementoDeCantidadAuditaEntrada(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Llaves", Quantity: 5,
	}, f.admin)
	require.NoError(t, err)

	out, err := f.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Quantity: int64p(12),
	}, f.admin)
	require.NoError(t, err)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, int64(12), *out.Quantity)

	// Seed del alta (5) + entrada por el incremento (7)
	deliveries, err := f.store.Deliveries().ListByProduct(created.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, entity.DeliveryTypeIn, deliveries[0].Type)
	assert.Equal(t, int64(7), deliveries[0].Quantity)
}

func TestProductUpdate_DecrementoDeCantidadNoSeAudita(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Brocas", Quantity: 12,
	}, f.admin)
	require.NoError(t, err)

	out, err := f.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Quantity: int64p(4),
	}, f.admin)
	require.NoError(t, err)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, int64(4), *out.Quantity)

	deliveries, err := f.store.Deliveries().ListByProduct(created.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1, "el decremento por edición directa no deja rastro")
}

func TestProductUpdate_NoExiste(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.uc.Update(context.Background(), uuid.New().String(), dto.UpdateProductRequest{Name: strp("X")}, f.admin)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete_CascadaBorraHistorial(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Sierra", Quantity: 8,
	}, f.admin)
	require.NoError(t, err)
	_, err = f.uc.Deliver(context.Background(), created.ID, dto.DeliverProductRequest{
		ToUserID: f.user.ID, Quantity: 3,
	}, f.admin)
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), created.ID, f.admin))

	_, err = f.uc.Get(context.Background(), created.ID, f.admin)
	require.ErrorIs(t, err, domain.ErrNotFound)
	deliveries, err := f.store.Deliveries().ListByProduct(created.ID)
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestProductDeliver_DescuentaYResuelveDestino(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Casco", Quantity: 10,
	}, f.admin)
	require.NoError(t, err)

	out, err := f.uc.Deliver(context.Background(), created.ID, dto.DeliverProductRequest{
		ToUserID: f.user.ID, Quantity: 4,
	}, f.admin)
	require.NoError(t, err)
	require.NotNil(t, out.Product.Quantity)
	assert.Equal(t, int64(6), *out.Product.Quantity)
	assert.Equal(t, entity.DeliveryTypeOut, out.Delivery.Type)
	require.NotNil(t, out.Delivery.ToUser)
	assert.Equal(t, f.user.ID, out.Delivery.ToUser.ID)
}

func TestProductDeliver_SinStockSuficiente(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Casco", Quantity: 2,
	}, f.admin)
	require.NoError(t, err)

	_, err = f.uc.Deliver(context.Background(), created.ID, dto.DeliverProductRequest{
		ToUserID: f.user.ID, Quantity: 4,
	}, f.admin)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProductListDeliveries_SoloAdmin(t *testing.T) {
	f := newProductFixture(t)
	created, err := f.uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Taladro", Quantity: 10,
	}, f.admin)
	require.NoError(t, err)
	_, err = f.uc.Deliver(context.Background(), created.ID, dto.DeliverProductRequest{
		ToUserID: f.user.ID, Quantity: 1,
	}, f.admin)
	require.NoError(t, err)

	_, err = f.uc.ListDeliveries(context.Background(), created.ID, f.user)
	require.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.ListDeliveries(context.Background(), created.ID, f.admin)
	require.NoError(t, err)
	require.Len(t, out.Deliveries, 2)
	// Más reciente primero: la salida va antes que el seed del alta
	assert.Equal(t, entity.DeliveryTypeOut, out.Deliveries[0].Type)
	assert.Equal(t, entity.DeliveryTypeIn, out.Deliveries[1].Type)
}

func TestProductListDeliveries_ProductoInexistente(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.uc.ListDeliveries(context.Background(), uuid.New().String(), f.admin)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
