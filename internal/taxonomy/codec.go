// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy owns the product category structure: its serialized
// form inside the reserved "category_structure" content entry, the
// reconciliation of that persisted structure with categories observed on
// live products, and the admin mutations that rewrite it.
package taxonomy

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Structure maps category names to their sub-category names. Order inside
// a slice is not significant; names are stored case-normalized.
type Structure map[string][]string

// schemaVersion tags the serialized envelope so future format changes can
// be detected at decode time. Version 0 (no tag) is the legacy bare-map form.
const schemaVersion = 1

// envelope is the versioned wire form stored in the content entry.
type envelope struct {
	Version    int                 `json:"version"`
	Categories map[string][]string `json:"categories"`
}

// Normalize canonicalizes a category or sub-category name: trimmed and
// lowercased. All lookups and duplicate checks go through this.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Encode serializes a structure to its versioned JSON form. Marshalling a
// string-keyed map of string slices cannot fail, so Encode returns the
// string directly.
func Encode(s Structure) string {
	if s == nil {
		s = Structure{}
	}
	b, err := json.Marshal(envelope{Version: schemaVersion, Categories: s})
	if err != nil {
		// Unreachable for these types; keep the log so a future field
		// addition that breaks marshalling is noticed.
		slog.Error("taxonomy encode failed", "error", err)
		return "{}"
	}
	return string(b)
}

// Decode parses a serialized structure. It accepts the current versioned
// envelope and the legacy bare {"category":["subs"]} form. Absent or
// malformed input yields an empty structure: stored taxonomy is optional
// legacy data, so decode problems are logged and absorbed, never raised.
func Decode(raw string) Structure {
	if strings.TrimSpace(raw) == "" {
		return Structure{}
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Categories != nil {
		return normalizeStructure(env.Categories)
	}

	// Legacy form: a bare category→subcategories object.
	var legacy map[string][]string
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil && legacy != nil {
		return normalizeStructure(legacy)
	}

	slog.Warn("malformed category structure, falling back to empty", "raw_len", len(raw))
	return Structure{}
}

// normalizeStructure lowercases every name and drops empties and
// duplicates that differ only by case.
func normalizeStructure(in map[string][]string) Structure {
	out := make(Structure, len(in))
	for cat, subs := range in {
		cat = Normalize(cat)
		if cat == "" {
			continue
		}
		seen := make(map[string]bool, len(subs))
		clean := make([]string, 0, len(subs))
		for _, sub := range subs {
			sub = Normalize(sub)
			if sub == "" || seen[sub] {
				continue
			}
			seen[sub] = true
			clean = append(clean, sub)
		}
		out[cat] = clean
	}
	return out
}
