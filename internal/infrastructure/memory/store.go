// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que simula el todo-o-nada de una transacción
// mediante snapshot y restauración. Se usa en pruebas de la capa de
// aplicación; no es apto para producción.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Store contiene el estado compartido por los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	products   map[string]entity.Product
	deliveries map[string]entity.Delivery
	users      map[string]entity.User

	// orden de inserción, para listados "más reciente primero" estables
	productOrder  []string
	deliveryOrder []string
	userOrder     []string

	// FailNextWrite hace fallar una escritura con el error indicado, para
	// probar el rollback del TxRunner. SkipWrites deja pasar esa cantidad de
	// escrituras antes de fallar (útil para fallar a mitad de transacción).
	FailNextWrite error
	SkipWrites    int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		deliveries: make(map[string]entity.Delivery),
		users:      make(map[string]entity.User),
	}
}

// Products devuelve el repositorio de productos sobre este almacén.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Deliveries devuelve el repositorio de entregas sobre este almacén.
func (s *Store) Deliveries() repository.DeliveryRepository { return &deliveryRepo{s: s} }

// Users devuelve el repositorio de usuarios sobre este almacén.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// TxRunner devuelve el runner transaccional sobre este almacén.
func (s *Store) TxRunner() ledger.TxRunner { return &txRunner{s: s} }

// lock toma el mutex del almacén salvo que el repo viva dentro de una
// transacción (el TxRunner ya lo tiene tomado durante todo Run).
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) consumeWriteFailure() error {
	if s.FailNextWrite == nil {
		return nil
	}
	if s.SkipWrites > 0 {
		s.SkipWrites--
		return nil
	}
	err := s.FailNextWrite
	s.FailNextWrite = nil
	return err
}

// txRunner toma un snapshot del estado, ejecuta fn y restaura el snapshot si
// fn falla: ninguna escritura parcial queda visible.
type txRunner struct {
	s *Store
}

func (r *txRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	products := copyMap(r.s.products)
	deliveries := copyMap(r.s.deliveries)
	productOrder := append([]string(nil), r.s.productOrder...)
	deliveryOrder := append([]string(nil), r.s.deliveryOrder...)

	if err := fn(&productRepo{s: r.s, inTx: true}, &deliveryRepo{s: r.s, inTx: true}); err != nil {
		r.s.products = products
		r.s.deliveries = deliveries
		r.s.productOrder = productOrder
		r.s.deliveryOrder = deliveryOrder
		return err
	}
	return nil
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ── productos ────────────────────────────────────────────────────────────────

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	r.s.products[product.ID] = *product
	r.s.productOrder = append(r.s.productOrder, product.ID)
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

// GetForUpdate no bloquea nada en memoria; el TxRunner serializa con su mutex.
func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) Update(product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	p, ok := r.s.products[product.ID]
	if !ok {
		return nil
	}
	p.Name = product.Name
	p.Description = product.Description
	p.Unit = product.Unit
	p.RecommendedQuantity = product.RecommendedQuantity
	p.UpdatedAt = product.UpdatedAt
	r.s.products[product.ID] = p
	return nil
}

func (r *productRepo) SetQuantity(id string, quantity int64, updatedAt time.Time) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Quantity = quantity
	p.UpdatedAt = updatedAt
	r.s.products[id] = p
	return nil
}

func (r *productRepo) IncrementQuantity(id string, delta int64, updatedAt time.Time) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Quantity += delta
	p.UpdatedAt = updatedAt
	r.s.products[id] = p
	return nil
}

func (r *productRepo) List() ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Product, 0, len(r.s.products))
	for i := len(r.s.productOrder) - 1; i >= 0; i-- {
		if p, ok := r.s.products[r.s.productOrder[i]]; ok {
			c := p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *productRepo) Delete(id string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	delete(r.s.products, id)
	return nil
}

// ── entregas ─────────────────────────────────────────────────────────────────

type deliveryRepo struct {
	s    *Store
	inTx bool
}

func (r *deliveryRepo) Create(delivery *entity.Delivery) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	r.s.deliveries[delivery.ID] = *delivery
	r.s.deliveryOrder = append(r.s.deliveryOrder, delivery.ID)
	return nil
}

func (r *deliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	defer r.s.lock(r.inTx)()
	d, ok := r.s.deliveries[id]
	if !ok {
		return nil, nil
	}
	out := d
	return &out, nil
}

func (r *deliveryRepo) UpdateQuantity(id string, quantity int64, updatedAt time.Time) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	d, ok := r.s.deliveries[id]
	if !ok {
		return nil
	}
	d.Quantity = quantity
	d.UpdatedAt = updatedAt
	r.s.deliveries[id] = d
	return nil
}

func (r *deliveryRepo) ListByProduct(productID string) ([]*entity.Delivery, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Delivery
	for i := len(r.s.deliveryOrder) - 1; i >= 0; i-- {
		d, ok := r.s.deliveries[r.s.deliveryOrder[i]]
		if !ok || d.ProductID != productID {
			continue
		}
		c := d
		if u, ok := r.s.users[c.ToUserID]; ok {
			c.ToUser = &entity.UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		}
		if u, ok := r.s.users[c.DeliveredBy]; ok {
			c.DeliveredByUser = &entity.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *deliveryRepo) DeleteByProduct(productID string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.consumeWriteFailure(); err != nil {
		return err
	}
	for id, d := range r.s.deliveries {
		if d.ProductID == productID {
			delete(r.s.deliveries, id)
		}
	}
	return nil
}

// ── usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(user *entity.User) error {
	defer r.s.lock(false)()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	r.s.userOrder = append(r.s.userOrder, user.ID)
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	defer r.s.lock(false)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	defer r.s.lock(false)()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(user *entity.User) error {
	defer r.s.lock(false)()
	if _, ok := r.s.users[user.ID]; !ok {
		return nil
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) List() ([]*entity.User, error) {
	defer r.s.lock(false)()
	out := make([]*entity.User, 0, len(r.s.users))
	for i := len(r.s.userOrder) - 1; i >= 0; i-- {
		if u, ok := r.s.users[r.s.userOrder[i]]; ok {
			c := u
			out = append(out, &c)
		}
	}
	return out, nil
}

// Delete elimina el usuario y anula sus referencias en el historial de
// entregas, como el ON DELETE SET NULL del esquema: las entregas sobreviven
// al usuario, sin destino ni registrador.
func (r *userRepo) Delete(id string) error {
	defer r.s.lock(false)()
	delete(r.s.users, id)
	for did, d := range r.s.deliveries {
		changed := false
		if d.ToUserID == id {
			d.ToUserID = ""
			changed = true
		}
		if d.DeliveredBy == id {
			d.DeliveredBy = ""
			changed = true
		}
		if changed {
			r.s.deliveries[did] = d
		}
	}
	return nil
}
