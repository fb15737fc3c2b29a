package usecase

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// Actor es la identidad opaca que la capa de autenticación ya resolvió para
// cada petición: quién actúa y con qué rol. Los casos de uso no autentican,
// solo ramifican sobre el rol.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin indica si el actor tiene rol privilegiado (ve cantidades exactas y
// puede mutar el inventario).
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}
