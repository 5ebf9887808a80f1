package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for content and catalog fields.
const (
	maxContentKeyLen   = 200
	maxContentValueLen = 100_000
	maxNameLen         = 300
	maxSKULen          = 64
	maxDescriptionLen  = 100_000
	maxMessageLen      = 10_000
	maxOrderItems      = 100
	maxItemQuantity    = 10_000
)

// validateContentEntry checks a draft save and returns the first error found.
func validateContentEntry(key, value string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "Key is required."
	}
	if utf8.RuneCountInString(key) > maxContentKeyLen {
		return "Key is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(value) > maxContentValueLen {
		return "Value is too long (max 100,000 characters)."
	}
	return ""
}

// validateProduct checks product form inputs and returns the first error found.
func validateProduct(name, sku string, priceCents int64, description string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 300 characters)."
	}
	if strings.TrimSpace(sku) == "" {
		return "SKU is required."
	}
	if utf8.RuneCountInString(sku) > maxSKULen {
		return "SKU is too long (max 64 characters)."
	}
	if priceCents < 0 {
		return "Price cannot be negative."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 100,000 characters)."
	}
	return ""
}

// validateInquiry checks inquiry form inputs and returns the first error found.
func validateInquiry(name, email, message string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if !looksLikeEmail(email) {
		return "A valid email address is required."
	}
	if strings.TrimSpace(message) == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return "Message is too long (max 10,000 characters)."
	}
	return ""
}

// looksLikeEmail applies a cheap shape check; real validation happens when
// the address bounces.
func looksLikeEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
