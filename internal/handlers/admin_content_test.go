// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chemtrade/internal/models"
)

// saveDraft runs the SaveDraft handler for key and returns the recorder.
func saveDraft(env *testEnv, key, value string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/content/"+key, map[string]string{"value": value})
	req = withChiURLParam(req, "key", key)
	env.AdmContent.SaveDraft(rec, req)
	return rec
}

// publicContent runs the public content handler and returns the
// published map.
func publicContent(t *testing.T, env *testEnv) map[string]string {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Public.Content(rec, httptest.NewRequest(http.MethodGet, "/content", nil))
	mustStatus(t, rec, http.StatusOK)

	var body struct {
		Content map[string]string `json:"content"`
	}
	decodeBody(t, rec, &body)
	return body.Content
}

func TestDraftInvisibleUntilPublish(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := saveDraft(env, "home.hero_title", "Chemicals, delivered")
	mustStatus(t, rec, http.StatusOK)

	if _, ok := publicContent(t, env)["home.hero_title"]; ok {
		t.Fatal("unpublished draft leaked into the public view")
	}

	rec = httptest.NewRecorder()
	env.AdmContent.Publish(rec, httptest.NewRequest(http.MethodPost, "/admin/publish", nil))
	mustStatus(t, rec, http.StatusOK)

	var pub map[string]int
	decodeBody(t, rec, &pub)
	if pub["published"] != 1 {
		t.Errorf("published count: got %d, want 1", pub["published"])
	}

	if got := publicContent(t, env)["home.hero_title"]; got != "Chemicals, delivered" {
		t.Errorf("public value after publish: got %q", got)
	}
}

func TestListFlagsUnpublishedChanges(t *testing.T) {
	env := newTestEnv(t, nil)

	saveDraft(env, "home.hero_title", "v1")
	saveDraft(env, "contact.intro", "Talk to sales")
	rec := httptest.NewRecorder()
	env.AdmContent.Publish(rec, httptest.NewRequest(http.MethodPost, "/admin/publish", nil))
	mustStatus(t, rec, http.StatusOK)

	// Re-saving the identical value is not a pending change; a different
	// draft is.
	saveDraft(env, "home.hero_title", "v1")
	saveDraft(env, "contact.intro", "Talk to our sales team")

	rec = httptest.NewRecorder()
	env.AdmContent.List(rec, httptest.NewRequest(http.MethodGet, "/admin/content", nil))
	mustStatus(t, rec, http.StatusOK)

	var body struct {
		Entries []struct {
			Key   string `json:"key"`
			Dirty bool   `json:"has_unpublished_changes"`
		} `json:"entries"`
	}
	decodeBody(t, rec, &body)

	dirty := make(map[string]bool, len(body.Entries))
	for _, e := range body.Entries {
		dirty[e.Key] = e.Dirty
	}
	if dirty["home.hero_title"] {
		t.Error("identical draft flagged as unpublished change")
	}
	if !dirty["contact.intro"] {
		t.Error("new entry not flagged as unpublished change")
	}
}

func TestSaveDraftKeyFromBody(t *testing.T) {
	env := newTestEnv(t, nil)

	// Without a routed {key} parameter the key must come from the body.
	rec := httptest.NewRecorder()
	env.AdmContent.SaveDraft(rec, jsonRequest(http.MethodPost, "/admin/content", map[string]string{
		"key":   "home.hero_title",
		"value": "Chemicals, delivered",
	}))
	mustStatus(t, rec, http.StatusOK)

	var entry models.ContentEntry
	decodeBody(t, rec, &entry)
	if entry.Key != "home.hero_title" {
		t.Errorf("key: got %q", entry.Key)
	}
	if entry.DraftValue == nil || *entry.DraftValue != "Chemicals, delivered" {
		t.Errorf("draft: got %v", entry.DraftValue)
	}
}

func TestListIncludesLastPublishedAt(t *testing.T) {
	env := newTestEnv(t, nil)

	saveDraft(env, "home.hero_title", "v1")
	rec := httptest.NewRecorder()
	env.AdmContent.Publish(rec, httptest.NewRequest(http.MethodPost, "/admin/publish", nil))
	mustStatus(t, rec, http.StatusOK)
	saveDraft(env, "contact.intro", "Talk to sales")

	rec = httptest.NewRecorder()
	env.AdmContent.List(rec, httptest.NewRequest(http.MethodGet, "/admin/content", nil))
	mustStatus(t, rec, http.StatusOK)

	var body struct {
		Entries []struct {
			Key             string     `json:"key"`
			LastPublishedAt *time.Time `json:"last_published_at"`
		} `json:"entries"`
	}
	decodeBody(t, rec, &body)

	published := make(map[string]*time.Time, len(body.Entries))
	for _, e := range body.Entries {
		published[e.Key] = e.LastPublishedAt
	}
	if ts := published["home.hero_title"]; ts == nil || ts.IsZero() {
		t.Error("published entry is missing last_published_at")
	}
	if published["contact.intro"] != nil {
		t.Error("never-published entry must have no last_published_at")
	}
}

func TestGetEntryWithDraft(t *testing.T) {
	env := newTestEnv(t, nil)
	saveDraft(env, "about.body", "We sell chemicals.")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/content/about.body", nil)
	req = withChiURLParam(req, "key", "about.body")
	env.AdmContent.Get(rec, req)
	mustStatus(t, rec, http.StatusOK)

	var entry models.ContentEntry
	decodeBody(t, rec, &entry)
	if entry.Key != "about.body" {
		t.Errorf("key: got %q", entry.Key)
	}
	if entry.DraftValue == nil || *entry.DraftValue != "We sell chemicals." {
		t.Errorf("draft: got %v", entry.DraftValue)
	}
	if entry.IsPublished {
		t.Error("new entry must start unpublished")
	}
}

func TestGetMissingEntry(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/content/nope", nil)
	req = withChiURLParam(req, "key", "nope")
	env.AdmContent.Get(rec, req)
	mustStatus(t, rec, http.StatusNotFound)
}

func TestSaveDraftValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty key", "", "v"},
		{"oversized key", strings.Repeat("k", 201), "v"},
		{"oversized value", "home.hero_title", strings.Repeat("v", 100_001)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := saveDraft(env, tc.key, tc.value)
			mustStatus(t, rec, http.StatusBadRequest)
		})
	}
}
