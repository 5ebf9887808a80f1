// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"database/sql"
	"fmt"

	"chemtrade/internal/models"
)

// InquiryStore handles inquiry-form submissions.
type InquiryStore struct {
	db *sql.DB
}

// NewInquiryStore creates a new InquiryStore with the given database connection.
func NewInquiryStore(db *sql.DB) *InquiryStore {
	return &InquiryStore{db: db}
}

// List returns all inquiries, newest first.
func (s *InquiryStore) List() ([]models.Inquiry, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, company, product_id, message, created_at
		FROM inquiries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var q models.Inquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Company, &q.ProductID, &q.Message, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, q)
	}
	return inquiries, rows.Err()
}

// Create inserts a new inquiry and returns it with the generated ID.
func (s *InquiryStore) Create(q *models.Inquiry) (*models.Inquiry, error) {
	created := &models.Inquiry{}
	err := s.db.QueryRow(`
		INSERT INTO inquiries (name, email, company, product_id, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, company, product_id, message, created_at
	`, q.Name, q.Email, q.Company, q.ProductID, q.Message).Scan(
		&created.ID, &created.Name, &created.Email, &created.Company,
		&created.ProductID, &created.Message, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return created, nil
}
