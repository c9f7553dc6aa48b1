/*
Package registry manages per-type key extraction for detabase.

Typed operations that act on whole entities (for example TypedBase.Remove)
need to know which value identifies an entity inside its base. By default the
reserved "key" field of the entity's JSON form is used; types whose key lives
elsewhere register a custom extractor:

	registry.RegisterKeyFunc(func(m Member) (string, error) {
	    return m.ID, nil
	})

	key, err := registry.KeyOf(member)

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
