// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// OrderStore handles all order database operations. Cart lines are stored
// as a JSONB column: order history is immutable and always read whole, so
// a line-item join buys nothing here.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new OrderStore with the given database connection.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	o := &models.Order{}
	var items []byte
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerName, &o.Email, &o.Company, &items,
		&o.SubtotalCents, &o.ShippingCents, &o.TotalCents, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return o, nil
}

const orderColumns = `id, number, customer_name, email, company, items,
	subtotal_cents, shipping_cents, total_cents, status, created_at, updated_at`

// List returns all orders, newest first.
func (s *OrderStore) List() ([]models.Order, error) {
	rows, err := s.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// FindByID retrieves an order by its UUID. Returns nil if not found.
func (s *OrderStore) FindByID(id uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return o, nil
}

// Create inserts a new order and returns it with the generated ID.
func (s *OrderStore) Create(o *models.Order) (*models.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}

	created, err := scanOrder(s.db.QueryRow(`
		INSERT INTO orders (number, customer_name, email, company, items,
		                    subtotal_cents, shipping_cents, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns+`
	`, o.Number, o.CustomerName, o.Email, o.Company, items,
		o.SubtotalCents, o.ShippingCents, o.TotalCents, o.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", mapDuplicate(err))
	}
	return created, nil
}

// UpdateStatus moves an order to a new fulfilment state.
func (s *OrderStore) UpdateStatus(id uuid.UUID, status models.OrderStatus) error {
	res, err := s.db.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
