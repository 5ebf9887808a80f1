// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the draft/publish workflow over the content
// store. Visitors only ever see published live values; admins edit drafts
// that stay invisible until a publish promotes every pending draft at once.
package content

import (
	"log/slog"
	"time"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// PublishResult carries the outcome of an asynchronous publish.
type PublishResult struct {
	Promoted int
	Err      error
}

// Service exposes privileged and public views of the content store and
// owns the publish path. Publishes run asynchronously with an explicit
// completion channel: callers decide whether to await durability before
// responding. Write failures are never swallowed; they are logged and
// forwarded to the error hook.
type Service struct {
	store   store.ContentStore
	onError func(error)
}

// NewService creates a content service. onError is an optional
// observability hook invoked with every failed asynchronous write;
// pass nil to rely on logging alone.
func NewService(st store.ContentStore, onError func(error)) *Service {
	return &Service{store: st, onError: onError}
}

// PublicView returns live values of published entries only, keyed by
// entry key. Drafts and never-published entries are invisible here.
func (s *Service) PublicView() (map[string]string, error) {
	entries, err := s.store.All()
	if err != nil {
		return nil, err
	}

	view := make(map[string]string)
	for _, e := range entries {
		if e.IsPublished {
			view[e.Key] = e.LiveValue
		}
	}
	return view, nil
}

// AdminView returns every entry, drafts included.
func (s *Service) AdminView() ([]models.ContentEntry, error) {
	return s.store.All()
}

// Get returns a single entry, draft included, or nil if absent.
func (s *Service) Get(key string) (*models.ContentEntry, error) {
	return s.store.Get(key)
}

// SaveDraft stores a pending value for key without touching the live
// value. New keys start unpublished with live seeded from the draft.
func (s *Service) SaveDraft(key, value string) (*models.ContentEntry, error) {
	return s.store.UpsertDraft(key, value)
}

// PublishAsync promotes all pending drafts in the background and returns
// a buffered completion channel. The channel always receives exactly one
// result, so callers that ignore it leak nothing.
func (s *Service) PublishAsync() <-chan PublishResult {
	ch := make(chan PublishResult, 1)
	go func() {
		promoted, err := s.store.PublishAll(time.Now())
		if err != nil {
			slog.Error("content publish failed", "error", err)
			if s.onError != nil {
				s.onError(err)
			}
		} else {
			slog.Info("content published", "entries", promoted)
		}
		ch <- PublishResult{Promoted: promoted, Err: err}
	}()
	return ch
}

// Publish promotes all pending drafts and waits for completion.
func (s *Service) Publish() (int, error) {
	res := <-s.PublishAsync()
	return res.Promoted, res.Err
}
