/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

// Reserved attribute names and service limits. These are defined by the
// remote service, not by this library.
const (
	// KeyAttribute is the reserved field that uniquely identifies an item
	// within a base.
	KeyAttribute = "key"

	// TTLAttribute is the reserved field holding the item's expiration as
	// whole epoch seconds.
	TTLAttribute = "__expires"

	// MaxChunkSize is the service ceiling on items per write request.
	// Put splits larger inputs into consecutive chunks of this size.
	MaxChunkSize = 25

	// DefaultQueryLimit is the service default page size for queries.
	DefaultQueryLimit = 1000

	// DefaultEndpoint is the root of the remote HTTP API. The project ID
	// and base name are appended to form the request authority.
	DefaultEndpoint = "https://database.deta.sh/v1"
)

// Item is one record in a base: a mapping from field names to
// JSON-compatible values. The KeyAttribute field identifies the item.
type Item map[string]any

// Key returns the item's reserved key attribute, or "" when unset.
func (i Item) Key() string {
	k, _ := i[KeyAttribute].(string)
	return k
}

// Query is a filter: OR across its conditions, AND within each condition's
// entries. A nil or empty Query matches every item. The client performs no
// interpretation; conditions are passed to the service verbatim.
type Query []Condition

// QueryResult is one immutable page of query results. Last is the opaque
// continuation cursor; "" means the result set is exhausted.
type QueryResult struct {
	Items []Item
	Count int
	Last  string
}
