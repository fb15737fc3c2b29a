package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

func TestDeliveryAmend_AjustaProductoYEntrega(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	duc := usecase.NewDeliveryUseCase(ledger.NewEngine(f.store.TxRunner(), f.store.Users()))

	created, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: "Escalera", Quantity: 10}, f.admin)
	require.NoError(t, err)
	delivered, err := f.uc.Deliver(ctx, created.ID, dto.DeliverProductRequest{ToUserID: f.user.ID, Quantity: 4}, f.admin)
	require.NoError(t, err)

	out, err := duc.Amend(ctx, delivered.Delivery.ID, dto.AmendDeliveryRequest{Quantity: 6}, f.admin)
	require.NoError(t, err)
	require.NotNil(t, out.Product.Quantity)
	assert.Equal(t, int64(4), *out.Product.Quantity)
	assert.Equal(t, int64(6), out.Delivery.Quantity)
}

func TestDeliveryAmend_NoExiste(t *testing.T) {
	f := newProductFixture(t)
	duc := usecase.NewDeliveryUseCase(ledger.NewEngine(f.store.TxRunner(), f.store.Users()))

	_, err := duc.Amend(context.Background(), uuid.New().String(), dto.AmendDeliveryRequest{Quantity: 2}, f.admin)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
