// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// snapshot.go persists the whole demo dataset to one JSON file.
// Writes go through a temp file plus rename so a crash mid-write never
// leaves a truncated snapshot behind.
package memory

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"chemtrade/internal/models"
)

// snapshotUser carries the fields models.User hides from JSON.
type snapshotUser struct {
	models.User
	PasswordHash string  `json:"password_hash"`
	TOTPSecret   *string `json:"totp_secret,omitempty"`
}

// snapshot is the on-disk shape of the demo dataset.
type snapshot struct {
	Content   map[string]models.ContentEntry `json:"content"`
	Products  []models.Product               `json:"products"`
	Orders    []models.Order                 `json:"orders"`
	Inquiries []models.Inquiry               `json:"inquiries"`
	Users     []snapshotUser                 `json:"users"`
}

// loadSnapshot reads the snapshot file into the maps. A missing file is
// normal for a fresh install; a malformed file is logged and ignored so a
// corrupted snapshot degrades to an empty store instead of blocking startup.
func (db *DB) loadSnapshot() {
	if db.snapshotPath == "" {
		return
	}

	raw, err := os.ReadFile(db.snapshotPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("snapshot read failed, starting empty", "path", db.snapshotPath, "error", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		slog.Warn("snapshot decode failed, starting empty", "path", db.snapshotPath, "error", err)
		return
	}

	for key, e := range snap.Content {
		db.content[key] = e
	}
	for _, p := range snap.Products {
		db.products[p.ID] = p
	}
	for _, o := range snap.Orders {
		db.orders[o.ID] = o
	}
	for _, q := range snap.Inquiries {
		db.inquiries[q.ID] = q
	}
	for _, su := range snap.Users {
		u := su.User
		u.PasswordHash = su.PasswordHash
		u.TOTPSecret = su.TOTPSecret
		db.users[u.ID] = u
	}

	slog.Info("snapshot loaded",
		"path", db.snapshotPath,
		"content", len(db.content),
		"products", len(db.products),
		"orders", len(db.orders),
	)
}

// saveSnapshotLocked writes the current dataset to the snapshot file.
// Callers must hold db.mu. Write failures are logged, not returned; a
// demo-mode snapshot miss should not fail the request that triggered it.
func (db *DB) saveSnapshotLocked() {
	if db.snapshotPath == "" {
		return
	}

	snap := snapshot{
		Content:   db.content,
		Products:  make([]models.Product, 0, len(db.products)),
		Orders:    make([]models.Order, 0, len(db.orders)),
		Inquiries: make([]models.Inquiry, 0, len(db.inquiries)),
		Users:     make([]snapshotUser, 0, len(db.users)),
	}
	for _, p := range db.products {
		snap.Products = append(snap.Products, p)
	}
	for _, o := range db.orders {
		snap.Orders = append(snap.Orders, o)
	}
	for _, q := range db.inquiries {
		snap.Inquiries = append(snap.Inquiries, q)
	}
	for _, u := range db.users {
		snap.Users = append(snap.Users, snapshotUser{User: u, PasswordHash: u.PasswordHash, TOTPSecret: u.TOTPSecret})
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		slog.Error("snapshot marshal failed", "error", err)
		return
	}
	b = append(b, '\n')

	dir := filepath.Dir(db.snapshotPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("snapshot mkdir failed", "dir", dir, "error", err)
			return
		}
	}

	tmp := db.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		slog.Error("snapshot write failed", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, db.snapshotPath); err != nil {
		os.Remove(tmp)
		slog.Error("snapshot rename failed", "path", db.snapshotPath, "error", err)
	}
}
