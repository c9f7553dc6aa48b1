/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/suparena/detabase/base"
)

// knownOps are the query operator suffixes of the service's condition
// language. A "field?op" key with any other suffix is treated as a plain
// field name.
var knownOps = map[string]bool{
	"ne":           true,
	"lt":           true,
	"gt":           true,
	"lte":          true,
	"gte":          true,
	"pfx":          true,
	"r":            true,
	"contains":     true,
	"not_contains": true,
}

// matchQuery reports whether item satisfies q: OR across conditions,
// AND within one condition's entries. An empty query matches everything.
func matchQuery(item base.Item, q base.Query) bool {
	if len(q) == 0 {
		return true
	}
	for _, cond := range q {
		if matchCondition(item, cond) {
			return true
		}
	}
	return false
}

func matchCondition(item base.Item, cond base.Condition) bool {
	for key, want := range cond {
		if !matchEntry(item, key, want) {
			return false
		}
	}
	return true
}

// matchEntry evaluates one "field" or "field?op" entry against the item.
// A missing field never matches, whatever the operator.
func matchEntry(item base.Item, key string, want any) bool {
	field, op := key, "eq"
	if idx := strings.LastIndex(key, "?"); idx >= 0 && knownOps[key[idx+1:]] {
		field, op = key[:idx], key[idx+1:]
	}

	got, ok := resolve(item, field)
	if !ok {
		return false
	}

	switch op {
	case "eq":
		return equal(got, want)
	case "ne":
		return !equal(got, want)
	case "lt":
		c, ok := compare(got, want)
		return ok && c < 0
	case "gt":
		c, ok := compare(got, want)
		return ok && c > 0
	case "lte":
		c, ok := compare(got, want)
		return ok && c <= 0
	case "gte":
		c, ok := compare(got, want)
		return ok && c >= 0
	case "pfx":
		gs, gok := got.(string)
		ws, wok := want.(string)
		return gok && wok && strings.HasPrefix(gs, ws)
	case "r":
		return inRange(got, want)
	case "contains":
		return contains(got, want)
	case "not_contains":
		return !contains(got, want)
	}
	return false
}

// resolve walks a dotted field path through nested maps.
func resolve(item base.Item, path string) (any, bool) {
	var cur any = map[string]any(item)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case base.Item:
		return m, true
	}
	return nil, false
}

// equal compares two JSON values, treating all numeric types as one.
func equal(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values when both are numbers or both are strings.
func compare(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// inRange checks lo <= got <= hi for a two-element range value.
func inRange(got, want any) bool {
	bounds, ok := asSlice(want)
	if !ok || len(bounds) != 2 {
		return false
	}
	lo, ok := compare(got, bounds[0])
	if !ok || lo < 0 {
		return false
	}
	hi, ok := compare(got, bounds[1])
	return ok && hi <= 0
}

// contains checks list membership, or substring match when both sides
// are strings.
func contains(got, want any) bool {
	if list, ok := asSlice(got); ok {
		for _, elem := range list {
			if equal(elem, want) {
				return true
			}
		}
		return false
	}
	gs, gok := got.(string)
	ws, wok := want.(string)
	return gok && wok && strings.Contains(gs, ws)
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
