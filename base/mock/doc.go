/*
Package mock provides an in-memory stand-in for a remote base, for
consumer tests.

The mock stores items in a map and implements the same wire contract the
real service speaks, so the real client can be pointed at it through
httptest:

	store := mock.New("users").WithAPIKey("proj_secret")
	srv := httptest.NewServer(store.Handler())
	defer srv.Close()

	b, _ := base.New("proj_secret", "users", base.WithEndpoint(srv.URL))
	// b now talks to the in-memory store with full query, paging and
	// TTL semantics.

Store state can be seeded and inspected directly via Seed, Get, Items,
Len and Clear. WithNow overrides the clock used for TTL expiry.
*/
package mock
