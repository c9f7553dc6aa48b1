/*
Package detabase is a Go client for the Deta Base document database,
offering raw item access, a type-safe generic facade, and batteries for
testing against an in-memory wire-accurate mock.

The library is organized in two layers:
  - detabase.Client: project-level entry that validates the data key and
    hands out per-base clients
  - base.Base: the per-base client carrying the HTTP operations (Put, Get,
    Delete, Insert, Update, Query) plus pagination conveniences

Key Features:
  - Type-safe operations using Go generics (TypedBase)
  - Fluent update builder with set/increment/append/delete operations
  - Query conditions with the full operator set (?ne, ?lt, ?gt, ?pfx, ...)
  - Automatic batching of large puts with optional bounded concurrency
  - Streaming query results with progress tracking
  - Item expiry through TTL write options
  - Semantic error types for better error handling
  - A wire-accurate in-memory mock for tests

Basic Usage:

	// Create a project client
	client, _ := detabase.New("projectid_secret")

	// Open a base and store an item
	users, _ := client.Base("users")
	item, err := users.Insert(ctx, base.Item{"key": "u1", "name": "John"})

	// Type-safe access
	store, _ := detabase.TypedBaseOf[User](client, "users")
	user, err := store.Get(ctx, "u1")

For more information, see the documentation at https://github.com/suparena/detabase
*/
package detabase
