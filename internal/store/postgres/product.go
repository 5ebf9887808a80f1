// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// mapDuplicate converts unique-violation errors to store.ErrDuplicate.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return store.ErrDuplicate
	}
	return err
}

const productColumns = `id, sku, name, slug, cas_number, formula, molar_mass,
	purity, hazard_class, category, sub_category, description,
	price_cents, pack_size, stock, spec_sheet_key, created_at, updated_at`

// ProductStore handles all product database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.CASNumber, &p.Formula, &p.MolarMass,
		&p.Purity, &p.HazardClass, &p.Category, &p.SubCategory, &p.Description,
		&p.PriceCents, &p.PackSize, &p.Stock, &p.SpecSheetKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all products ordered by name.
func (s *ProductStore) List() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// FindByID retrieves a product by its UUID. Returns nil if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a product by its slug. Returns nil if not found.
func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new product and returns it with the generated ID.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	created, err := scanProduct(s.db.QueryRow(`
		INSERT INTO products (sku, name, slug, cas_number, formula, molar_mass,
		                      purity, hazard_class, category, sub_category,
		                      description, price_cents, pack_size, stock, spec_sheet_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+productColumns+`
	`, p.SKU, p.Name, p.Slug, p.CASNumber, p.Formula, p.MolarMass,
		p.Purity, p.HazardClass, p.Category, p.SubCategory,
		p.Description, p.PriceCents, p.PackSize, p.Stock, p.SpecSheetKey,
	))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", mapDuplicate(err))
	}
	return created, nil
}

// Update modifies an existing product.
func (s *ProductStore) Update(p *models.Product) error {
	res, err := s.db.Exec(`
		UPDATE products SET
			sku = $1, name = $2, slug = $3, cas_number = $4, formula = $5,
			molar_mass = $6, purity = $7, hazard_class = $8, category = $9,
			sub_category = $10, description = $11, price_cents = $12,
			pack_size = $13, stock = $14, spec_sheet_key = $15, updated_at = NOW()
		WHERE id = $16
	`, p.SKU, p.Name, p.Slug, p.CASNumber, p.Formula,
		p.MolarMass, p.Purity, p.HazardClass, p.Category,
		p.SubCategory, p.Description, p.PriceCents,
		p.PackSize, p.Stock, p.SpecSheetKey, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", mapDuplicate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RenameCategory rewrites the category on every matching product in one
// statement. Returns the number of rows updated.
func (s *ProductStore) RenameCategory(oldName, newName string) (int, error) {
	res, err := s.db.Exec(`
		UPDATE products SET category = $1, updated_at = NOW() WHERE category = $2
	`, newName, oldName)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rename category rows: %w", err)
	}
	return int(n), nil
}

// RenameSubCategory rewrites the sub-category on every matching product
// under the given category.
func (s *ProductStore) RenameSubCategory(category, oldName, newName string) (int, error) {
	res, err := s.db.Exec(`
		UPDATE products SET sub_category = $1, updated_at = NOW()
		WHERE category = $2 AND sub_category = $3
	`, newName, category, oldName)
	if err != nil {
		return 0, fmt.Errorf("rename sub-category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rename sub-category rows: %w", err)
	}
	return int(n), nil
}
