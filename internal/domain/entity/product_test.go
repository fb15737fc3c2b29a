package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestIsLowStock(t *testing.T) {
	cases := []struct {
		name        string
		quantity    int64
		recommended int64
		want        bool
	}{
		{"sin recomendada nunca hay stock bajo", 0, 0, false},
		{"por debajo de la recomendada", 3, 10, true},
		{"igual a la recomendada", 10, 10, false},
		{"por encima de la recomendada", 15, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.Product{Quantity: tc.quantity, RecommendedQuantity: tc.recommended}
			assert.Equal(t, tc.want, p.IsLowStock())
		})
	}
}

func TestValidUnit(t *testing.T) {
	for _, u := range []string{
		entity.UnitPiezas, entity.UnitMetros, entity.UnitKilos, entity.UnitLitros,
		entity.UnitCajas, entity.UnitPaquetes, entity.UnitUnidades,
	} {
		assert.True(t, entity.ValidUnit(u), u)
	}
	assert.False(t, entity.ValidUnit("galones"))
	assert.False(t, entity.ValidUnit(""))
}

func TestDeliverySignedQuantity(t *testing.T) {
	in := entity.Delivery{Type: entity.DeliveryTypeIn, Quantity: 5}
	out := entity.Delivery{Type: entity.DeliveryTypeOut, Quantity: 5}
	assert.Equal(t, int64(5), in.SignedQuantity())
	assert.Equal(t, int64(-5), out.SignedQuantity())
}
