// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// postgres_test.go provides the shared test database helper for the
// store integration tests. Tests are skipped if PostgreSQL is not
// available.
package postgres

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"chemtrade/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "chemtrade")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "chemtrade")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanContent removes test content entries by key.
func cleanContent(t *testing.T, db *sql.DB, keys ...string) {
	t.Helper()
	for _, k := range keys {
		db.Exec("DELETE FROM content_entries WHERE key = $1", k)
	}
}

// cleanProducts removes test products by SKU.
func cleanProducts(t *testing.T, db *sql.DB, skus ...string) {
	t.Helper()
	for _, sku := range skus {
		db.Exec("DELETE FROM products WHERE sku = $1", sku)
	}
}

// cleanOrders removes test orders by number.
func cleanOrders(t *testing.T, db *sql.DB, numbers ...string) {
	t.Helper()
	for _, n := range numbers {
		db.Exec("DELETE FROM orders WHERE number = $1", n)
	}
}

// cleanUsers removes test users by email.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", e)
	}
}
