package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una entrega del historial.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, type, product_id, to_user_id, quantity, delivered_by, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	toUserID := (*string)(nil)
	if delivery.ToUserID != "" {
		toUserID = &delivery.ToUserID
	}
	deliveredBy := (*string)(nil)
	if delivery.DeliveredBy != "" {
		deliveredBy = &delivery.DeliveredBy
	}
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.Type, delivery.ProductID, toUserID,
		delivery.Quantity, deliveredBy, delivery.DeliveredAt,
		delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := `
		SELECT id, type, product_id, to_user_id, quantity, delivered_by, delivered_at, created_at, updated_at
		FROM deliveries WHERE id = $1`
	var d entity.Delivery
	var toUserID, deliveredBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Type, &d.ProductID, &toUserID, &d.Quantity,
		&deliveredBy, &d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	d.ToUserID = deref(toUserID)
	d.DeliveredBy = deref(deliveredBy)
	return &d, nil
}

// UpdateQuantity modifica solo la cantidad de la entrega (producto y tipo son inmutables).
func (r *DeliveryRepo) UpdateQuantity(id string, quantity int64, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE deliveries SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, quantity, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery quantity: %w", err)
	}
	return nil
}

// ListByProduct lista las entregas de un producto, más reciente primero, con
// las identidades de usuario destino y registrador resueltas (LEFT JOIN users).
func (r *DeliveryRepo) ListByProduct(productID string) ([]*entity.Delivery, error) {
	query := `
		SELECT d.id, d.type, d.product_id, d.to_user_id, d.quantity, d.delivered_by, d.delivered_at, d.created_at, d.updated_at,
		       tu.name, tu.email, tu.role,
		       db.name, db.email
		FROM deliveries d
		LEFT JOIN users tu ON tu.id = d.to_user_id
		LEFT JOIN users db ON db.id = d.delivered_by
		WHERE d.product_id = $1
		ORDER BY d.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		var toUserID, deliveredBy, tuName, tuEmail, tuRole, dbName, dbEmail *string
		if err := rows.Scan(&d.ID, &d.Type, &d.ProductID, &toUserID, &d.Quantity,
			&deliveredBy, &d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
			&tuName, &tuEmail, &tuRole, &dbName, &dbEmail); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.ToUserID = deref(toUserID)
		d.DeliveredBy = deref(deliveredBy)
		if d.ToUserID != "" && tuName != nil {
			d.ToUser = &entity.UserRef{ID: d.ToUserID, Name: *tuName, Email: deref(tuEmail), Role: deref(tuRole)}
		}
		if dbName != nil {
			d.DeliveredByUser = &entity.UserRef{ID: d.DeliveredBy, Name: *dbName, Email: deref(dbEmail)}
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina todas las entregas de un producto (cascada del borrado de producto).
func (r *DeliveryRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM deliveries WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete deliveries by product: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
