/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

// Condition is one AND-group of field conditions in the service's query
// language: each entry maps "field" or "field?op" to a comparison value.
// The helpers below only spell out the operator suffixes; nothing is
// evaluated client-side.
type Condition map[string]any

// Where starts an empty condition for fluent construction:
//
//	base.Where().Eq("status", "active").Gt("age", 21)
func Where() Condition {
	return Condition{}
}

// Eq matches items whose field equals value.
func (c Condition) Eq(field string, value any) Condition {
	c[field] = value
	return c
}

// Ne matches items whose field differs from value.
func (c Condition) Ne(field string, value any) Condition {
	c[field+"?ne"] = value
	return c
}

// Lt matches items whose field is less than value.
func (c Condition) Lt(field string, value any) Condition {
	c[field+"?lt"] = value
	return c
}

// Gt matches items whose field is greater than value.
func (c Condition) Gt(field string, value any) Condition {
	c[field+"?gt"] = value
	return c
}

// Lte matches items whose field is at most value.
func (c Condition) Lte(field string, value any) Condition {
	c[field+"?lte"] = value
	return c
}

// Gte matches items whose field is at least value.
func (c Condition) Gte(field string, value any) Condition {
	c[field+"?gte"] = value
	return c
}

// Prefix matches items whose string field starts with prefix.
func (c Condition) Prefix(field, prefix string) Condition {
	c[field+"?pfx"] = prefix
	return c
}

// Range matches items whose field lies in [lo, hi].
func (c Condition) Range(field string, lo, hi any) Condition {
	c[field+"?r"] = []any{lo, hi}
	return c
}

// Contains matches items whose list or string field contains value.
func (c Condition) Contains(field string, value any) Condition {
	c[field+"?contains"] = value
	return c
}

// NotContains matches items whose list or string field does not contain
// value.
func (c Condition) NotContains(field string, value any) Condition {
	c[field+"?not_contains"] = value
	return c
}
