/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"encoding/json"
	"testing"
)

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return string(data)
}

func TestUpdateBuilderEmptyShape(t *testing.T) {
	got := mustMarshal(t, NewUpdate())
	want := `{"set":{},"increment":{},"append":{},"delete":[]}`
	if got != want {
		t.Errorf("Unexpected empty shape:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateBuilderLastWriteWins(t *testing.T) {
	u := NewUpdate().Set("a", 1).Set("a", 2)
	got := mustMarshal(t, u)
	want := `{"set":{"a":2},"increment":{},"append":{},"delete":[]}`
	if got != want {
		t.Errorf("Expected last set call to win:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateBuilderChaining(t *testing.T) {
	u := NewUpdate().
		Set("name", "John").
		Set("active", true).
		Increment("age", 1).
		Increment("score", -2.5).
		Append("tags", "a", "b").
		Delete("pending", "draft")

	got := mustMarshal(t, u)
	want := `{"set":{"active":true,"name":"John"},"increment":{"age":1,"score":-2.5},"append":{"tags":["a","b"]},"delete":["pending","draft"]}`
	if got != want {
		t.Errorf("Unexpected serialized update:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateBuilderAppendReplacesPerField(t *testing.T) {
	u := NewUpdate().Append("tags", "old").Append("tags", "new", "newer")
	got := mustMarshal(t, u)
	want := `{"set":{},"increment":{},"append":{"tags":["new","newer"]},"delete":[]}`
	if got != want {
		t.Errorf("Expected last append call to win:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateBuilderDeleteDeduplicates(t *testing.T) {
	u := NewUpdate().Delete("a", "b").Delete("a", "c")
	got := mustMarshal(t, u)
	want := `{"set":{},"increment":{},"append":{},"delete":["a","b","c"]}`
	if got != want {
		t.Errorf("Expected duplicate deletes to collapse:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateSerializeExtraDoesNotMutateBuilder(t *testing.T) {
	u := NewUpdate().Set("status", "active")

	body := u.serialize(map[string]any{TTLAttribute: int64(1700000000)})
	if body.Set[TTLAttribute] != int64(1700000000) {
		t.Errorf("Expected extra field in serialized set, got %#v", body.Set)
	}
	if body.Set["status"] != "active" {
		t.Errorf("Expected builder fields in serialized set, got %#v", body.Set)
	}

	// The builder itself keeps only its own fields.
	got := mustMarshal(t, u)
	want := `{"set":{"status":"active"},"increment":{},"append":{},"delete":[]}`
	if got != want {
		t.Errorf("Extra fields leaked into the builder:\n got %s\nwant %s", got, want)
	}
}

func TestUpdateFieldInMultipleCategories(t *testing.T) {
	// No cross-category validation: the service arbitrates conflicts.
	u := NewUpdate().Set("x", 1).Delete("x")
	got := mustMarshal(t, u)
	want := `{"set":{"x":1},"increment":{},"append":{},"delete":["x"]}`
	if got != want {
		t.Errorf("Expected both categories kept:\n got %s\nwant %s", got, want)
	}
}
