/*
Package base implements the client for a single Deta Base collection.

A Base talks to the remote HTTP API for one named collection of JSON items.
Items are plain field maps addressed by the reserved "key" attribute; an
optional reserved "__expires" attribute holds an epoch-seconds expiration
the service enforces server-side.

Operations:

	b, _ := base.New("projectid_secret", "users")

	// Unconditional write (batched in chunks of 25)
	processed, err := b.Put(ctx, []base.Item{{"key": "u-1", "name": "John"}})

	// Conditional write: fails if the key already exists
	created, err := b.Insert(ctx, base.Item{"name": "Jane"})

	// Read / remove
	item, err := b.Get(ctx, "u-1")   // item == nil when absent
	err = b.Delete(ctx, "u-1")

	// Partial update
	err = b.Update(ctx, "u-1", base.NewUpdate().
	    Set("status", "active").
	    Increment("visits", 1).
	    Delete("pending"))

	// One page per call; the caller drives the pagination loop
	res, err := b.Query(ctx, base.Query{base.Where().Gt("age", 21)})
	for res.Last != "" {
	    res, err = b.Query(ctx, q, base.WithLast(res.Last))
	    ...
	}

QueryAll and Stream are conveniences built on the one-page Query: QueryAll
accumulates every page, Stream delivers items on a channel.

Expirations are attached through write options: WithExpireAt pins an
absolute instant, WithExpireIn a duration from now. Sub-second precision
is truncated to match the service's timestamp contract.

No call is ever retried; a transport failure is final for that call and is
returned as an error. "Not found", "already exists" and failed requests
surface as distinct semantic errors from the errors package.
*/
package base
