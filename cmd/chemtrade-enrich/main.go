// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// chemtrade-enrich is a batch tool that fills in missing chemical
// reference data (CAS number, molecular formula, molar mass) for every
// product in the catalog. It reads the same environment configuration
// as the server, so pointing it at the production database is just a
// matter of exporting the same variables.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"chemtrade/internal/config"
	"chemtrade/internal/database"
	"chemtrade/internal/enrich"
	"chemtrade/internal/models"
	"chemtrade/internal/store"
	"chemtrade/internal/store/memory"
	"chemtrade/internal/store/postgres"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "look compounds up but do not write anything")
	delay := flag.Duration("delay", 300*time.Millisecond, "pause between lookups to stay polite to the public APIs")
	timeout := flag.Duration("timeout", 15*time.Second, "per-lookup timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var stores *store.Stores
	switch cfg.StoreDriver {
	case config.DriverMemory:
		stores, _ = memory.Open(cfg.SnapshotPath)
	case config.DriverPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		stores = postgres.New(db)
	}

	var enricher *enrich.Client
	switch cfg.EnrichProvider {
	case "cactus":
		enricher = enrich.NewClient(enrich.NewCactus(""), enrich.NewPubChem(""))
	default:
		enricher = enrich.NewClient(enrich.NewPubChem(""), enrich.NewCactus(""))
	}

	products, err := stores.Products.List()
	if err != nil {
		slog.Error("failed to list products", "error", err)
		os.Exit(1)
	}

	var looked, updated, missed int
	for i := range products {
		p := &products[i]
		if !needsEnrichment(p) {
			continue
		}

		identifier := p.CASNumber
		if identifier == "" {
			identifier = p.Name
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		props, err := enricher.Lookup(ctx, identifier)
		cancel()
		looked++

		if err != nil {
			if errors.Is(err, enrich.ErrNotFound) {
				slog.Warn("compound not found", "sku", p.SKU, "identifier", identifier)
				missed++
			} else {
				slog.Error("lookup failed", "sku", p.SKU, "error", err)
			}
			time.Sleep(*delay)
			continue
		}

		if !merge(p, props) {
			time.Sleep(*delay)
			continue
		}

		if *dryRun {
			slog.Info("would update", "sku", p.SKU,
				"cas", p.CASNumber, "formula", p.Formula, "molar_mass", p.MolarMass)
		} else {
			if err := stores.Products.Update(p); err != nil {
				slog.Error("update failed", "sku", p.SKU, "error", err)
				continue
			}
			slog.Info("updated", "sku", p.SKU,
				"cas", p.CASNumber, "formula", p.Formula, "molar_mass", p.MolarMass)
		}
		updated++
		time.Sleep(*delay)
	}

	slog.Info("done", "products", len(products), "looked_up", looked, "updated", updated, "not_found", missed)
}

// needsEnrichment reports whether any reference field is still blank.
func needsEnrichment(p *models.Product) bool {
	return p.CASNumber == "" || p.Formula == "" || p.MolarMass == 0
}

// merge copies looked-up values into blank fields only. Hand-entered
// catalog data always wins over the reference databases.
func merge(p *models.Product, props *enrich.Properties) bool {
	changed := false
	if p.CASNumber == "" && props.CASNumber != "" {
		p.CASNumber = props.CASNumber
		changed = true
	}
	if p.Formula == "" && props.Formula != "" {
		p.Formula = props.Formula
		changed = true
	}
	if p.MolarMass == 0 && props.MolarMass != 0 {
		p.MolarMass = props.MolarMass
		changed = true
	}
	return changed
}
