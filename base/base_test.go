/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/suparena/detabase/errors"
)

// newTestBase points a Base at an httptest server speaking the wire
// contract. The base URL becomes <server>/proj/testbase.
func newTestBase(t *testing.T, handler http.Handler, opts ...Option) *Base {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithEndpoint(srv.URL)}, opts...)
	b, err := New("proj_secret", "testbase", opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b
}

func TestNewValidatesDataKey(t *testing.T) {
	testCases := []struct {
		name    string
		dataKey string
		wantErr bool
	}{
		{name: "valid", dataKey: "proj_secret", wantErr: false},
		{name: "missing separator", dataKey: "projsecret", wantErr: true},
		{name: "empty", dataKey: "", wantErr: true},
		{name: "separator only", dataKey: "_", wantErr: true},
		{name: "empty project", dataKey: "_secret", wantErr: true},
		{name: "empty secret", dataKey: "proj_", wantErr: true},
		{name: "two separators", dataKey: "a_b_c", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.dataKey, "testbase")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for data key %q", tc.dataKey)
				}
				if !errors.IsValidationError(err) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed for valid data key: %v", err)
			}
		})
	}
}

func TestNewValidatesBaseName(t *testing.T) {
	if _, err := New("proj_secret", ""); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for empty base name, got %v", err)
	}
	if _, err := New("proj_secret", "   "); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for blank base name, got %v", err)
	}
}

func TestGet(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		var gotPath, gotAPIKey string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAPIKey = r.Header.Get("X-API-Key")
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"key":"u-1","name":"John","age":30}`)
		}))

		item, err := b.Get(context.Background(), "u-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if gotPath != "/proj/testbase/items/u-1" {
			t.Errorf("Unexpected request path %q", gotPath)
		}
		if gotAPIKey != "proj_secret" {
			t.Errorf("Expected full data key in API key header, got %q", gotAPIKey)
		}
		if item.Key() != "u-1" || item["name"] != "John" {
			t.Errorf("Unexpected item: %#v", item)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))

		item, err := b.Get(context.Background(), "missing")
		if err != nil {
			t.Fatalf("Expected nil error for missing key, got %v", err)
		}
		if item != nil {
			t.Errorf("Expected nil item for missing key, got %#v", item)
		}
	})

	t.Run("RequestFailed", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		item, err := b.Get(context.Background(), "u-1")
		if !errors.IsRequestFailed(err) {
			t.Fatalf("Expected request error, got %v", err)
		}
		if errors.StatusCode(err) != http.StatusInternalServerError {
			t.Errorf("Expected status 500 on error, got %d", errors.StatusCode(err))
		}
		if item != nil {
			t.Errorf("Expected nil item on failure, got %#v", item)
		}
	})

	t.Run("EmptyKey", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("No request expected for empty key")
		}))

		if _, err := b.Get(context.Background(), ""); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("KeyEscaping", func(t *testing.T) {
		var gotPath string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			http.Error(w, "not found", http.StatusNotFound)
		}))

		if _, err := b.Get(context.Background(), "a/b c"); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if gotPath != "/proj/testbase/items/a%2Fb%20c" {
			t.Errorf("Expected escaped key in path, got %q", gotPath)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("IgnoresStatus", func(t *testing.T) {
		var gotMethod, gotPath string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			http.Error(w, "whatever", http.StatusInternalServerError)
		}))

		if err := b.Delete(context.Background(), "u-1"); err != nil {
			t.Fatalf("Delete must ignore the response status, got %v", err)
		}
		if gotMethod != http.MethodDelete || gotPath != "/proj/testbase/items/u-1" {
			t.Errorf("Unexpected request %s %s", gotMethod, gotPath)
		}
	})

	t.Run("EmptyKey", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("No request expected for empty key")
		}))

		if err := b.Delete(context.Background(), ""); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestInsert(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		var gotBody map[string]Item
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/proj/testbase/items" {
				t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("Failed to decode insert body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"key":"generated","name":"Jane"}`)
		}))

		created, err := b.Insert(context.Background(), Item{"name": "Jane"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if created.Key() != "generated" {
			t.Errorf("Expected service-assigned key, got %#v", created)
		}
		if gotBody["item"]["name"] != "Jane" {
			t.Errorf("Unexpected insert body: %#v", gotBody)
		}
	})

	t.Run("Conflict", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "conflict", http.StatusConflict)
		}))

		_, err := b.Insert(context.Background(), Item{"key": "u-1"})
		if !errors.IsAlreadyExists(err) {
			t.Fatalf("Expected already-exists error, got %v", err)
		}
	})

	t.Run("WithTTL", func(t *testing.T) {
		var gotBody map[string]Item
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"key":"k"}`)
		}))

		at := time.Date(2026, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
		if _, err := b.Insert(context.Background(), Item{"name": "x"}, WithExpireAt(at)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		want := float64(at.Truncate(time.Second).Unix())
		if gotBody["item"][TTLAttribute] != want {
			t.Errorf("Expected TTL %v in insert body, got %v", want, gotBody["item"][TTLAttribute])
		}
	})

	t.Run("NilItem", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("No request expected for nil item")
		}))

		if _, err := b.Insert(context.Background(), nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("SendsFourKeyBody", func(t *testing.T) {
		var gotMethod, gotPath, gotBody string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			w.WriteHeader(http.StatusOK)
		}))

		u := NewUpdate().Set("status", "active").Increment("visits", 2).Delete("pending")
		if err := b.Update(context.Background(), "u-1", u); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if gotMethod != http.MethodPatch || gotPath != "/proj/testbase/items/u-1" {
			t.Errorf("Unexpected request %s %s", gotMethod, gotPath)
		}
		want := `{"set":{"status":"active"},"increment":{"visits":2},"append":{},"delete":["pending"]}`
		if gotBody != want {
			t.Errorf("Unexpected update body:\n got %s\nwant %s", gotBody, want)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))

		err := b.Update(context.Background(), "missing", NewUpdate().Set("a", 1))
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not-found error, got %v", err)
		}
	})

	t.Run("TTLMergesIntoSetWithoutMutatingBuilder", func(t *testing.T) {
		var bodies []string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(data))
			w.WriteHeader(http.StatusOK)
		}))

		at := time.Unix(1700000000, 0).UTC()
		u := NewUpdate().Set("status", "active")

		if err := b.Update(context.Background(), "u-1", u, WithExpireAt(at)); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := b.Update(context.Background(), "u-1", u); err != nil {
			t.Fatalf("Second update failed: %v", err)
		}

		withTTL := `{"set":{"__expires":1700000000,"status":"active"},"increment":{},"append":{},"delete":[]}`
		withoutTTL := `{"set":{"status":"active"},"increment":{},"append":{},"delete":[]}`
		if bodies[0] != withTTL {
			t.Errorf("Unexpected first body:\n got %s\nwant %s", bodies[0], withTTL)
		}
		if bodies[1] != withoutTTL {
			t.Errorf("Expiration leaked into the builder:\n got %s\nwant %s", bodies[1], withoutTTL)
		}
	})

	t.Run("NilUpdateSendsEmptyBody", func(t *testing.T) {
		var gotBody string
		b := newTestBase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			w.WriteHeader(http.StatusOK)
		}))

		if err := b.Update(context.Background(), "u-1", nil); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		want := `{"set":{},"increment":{},"append":{},"delete":[]}`
		if gotBody != want {
			t.Errorf("Unexpected body for nil update: %s", gotBody)
		}
	})
}
