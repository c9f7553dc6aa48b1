/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"encoding/json"
	"slices"
)

// ItemUpdate accumulates partial-update operations for a single item in
// four independent categories: set, increment, append and delete. Each
// method merges into its category and returns the builder for chaining.
// Within a category the last write wins per field. A field may appear in
// more than one category; the service defines the precedence, the builder
// performs no cross-category validation.
type ItemUpdate struct {
	sets       map[string]any
	increments map[string]float64
	appends    map[string][]any
	deletes    []string
}

// NewUpdate returns an empty update builder.
func NewUpdate() *ItemUpdate {
	return &ItemUpdate{}
}

// Set schedules field to be written with value.
func (u *ItemUpdate) Set(field string, value any) *ItemUpdate {
	if u.sets == nil {
		u.sets = make(map[string]any)
	}
	u.sets[field] = value
	return u
}

// Increment schedules field to be increased by delta. Negative deltas
// decrement.
func (u *ItemUpdate) Increment(field string, delta float64) *ItemUpdate {
	if u.increments == nil {
		u.increments = make(map[string]float64)
	}
	u.increments[field] = delta
	return u
}

// Append schedules values to be concatenated onto the list stored at
// field. A repeated call for the same field replaces the scheduled values.
func (u *ItemUpdate) Append(field string, values ...any) *ItemUpdate {
	if u.appends == nil {
		u.appends = make(map[string][]any)
	}
	u.appends[field] = values
	return u
}

// Delete schedules fields to be removed from the item.
func (u *ItemUpdate) Delete(fields ...string) *ItemUpdate {
	for _, f := range fields {
		if !slices.Contains(u.deletes, f) {
			u.deletes = append(u.deletes, f)
		}
	}
	return u
}

// updateBody is the wire shape of an update request. All four keys are
// always present; unused categories serialize as empty, not null.
type updateBody struct {
	Set       map[string]any     `json:"set"`
	Increment map[string]float64 `json:"increment"`
	Append    map[string][]any   `json:"append"`
	Delete    []string           `json:"delete"`
}

// serialize snapshots the builder into a wire body, merging extraSet into
// the set category. The builder itself is never modified, so attaching an
// expiration to one call does not leak into later reuses of the builder.
func (u *ItemUpdate) serialize(extraSet map[string]any) updateBody {
	body := updateBody{
		Set:       make(map[string]any, len(u.sets)+len(extraSet)),
		Increment: make(map[string]float64, len(u.increments)),
		Append:    make(map[string][]any, len(u.appends)),
		Delete:    make([]string, 0, len(u.deletes)),
	}
	for k, v := range u.sets {
		body.Set[k] = v
	}
	for k, v := range extraSet {
		body.Set[k] = v
	}
	for k, v := range u.increments {
		body.Increment[k] = v
	}
	for k, v := range u.appends {
		body.Append[k] = v
	}
	body.Delete = append(body.Delete, u.deletes...)
	return body
}

// MarshalJSON emits the fixed four-key request shape
// {"set":{},"increment":{},"append":{},"delete":[]} with empty defaults
// for unused categories.
func (u *ItemUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.serialize(nil))
}
