/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"testing"

	"github.com/suparena/detabase/base"
)

func TestMatchQueryOperators(t *testing.T) {
	item := base.Item{
		"key":  "member-1",
		"name": "Alice",
		"age":  float64(27),
		"bio":  "climbs rocks on weekends",
		"tags": []any{"a", "b"},
		"profile": map[string]any{
			"city":  "Lisbon",
			"score": float64(80),
		},
	}

	tests := []struct {
		name string
		cond base.Condition
		want bool
	}{
		{"EqualMatch", base.Condition{"name": "Alice"}, true},
		{"EqualMismatch", base.Condition{"name": "Bob"}, false},
		{"EqualNumericCrossType", base.Condition{"age": 27}, true},
		{"NotEqual", base.Condition{"name?ne": "Bob"}, true},
		{"NotEqualSameValue", base.Condition{"name?ne": "Alice"}, false},
		{"NotEqualMissingField", base.Condition{"nickname?ne": "Bob"}, false},
		{"LessThan", base.Condition{"age?lt": 30}, true},
		{"LessThanBoundary", base.Condition{"age?lt": 27}, false},
		{"GreaterThan", base.Condition{"age?gt": 21}, true},
		{"GreaterThanBoundary", base.Condition{"age?gt": 27}, false},
		{"LessThanOrEqualBoundary", base.Condition{"age?lte": 27}, true},
		{"GreaterThanOrEqualBoundary", base.Condition{"age?gte": 27}, true},
		{"StringOrdering", base.Condition{"name?lt": "Bob"}, true},
		{"Prefix", base.Condition{"name?pfx": "Al"}, true},
		{"PrefixMismatch", base.Condition{"name?pfx": "Bo"}, false},
		{"PrefixNonString", base.Condition{"age?pfx": "2"}, false},
		{"RangeInside", base.Condition{"age?r": []any{21, 30}}, true},
		{"RangeInclusiveLowerBound", base.Condition{"age?r": []any{27, 30}}, true},
		{"RangeInclusiveUpperBound", base.Condition{"age?r": []any{21, 27}}, true},
		{"RangeOutside", base.Condition{"age?r": []any{28, 30}}, false},
		{"RangeMalformed", base.Condition{"age?r": []any{21}}, false},
		{"ContainsListElement", base.Condition{"tags?contains": "a"}, true},
		{"ContainsMissingElement", base.Condition{"tags?contains": "z"}, false},
		{"ContainsSubstring", base.Condition{"bio?contains": "rock"}, true},
		{"NotContains", base.Condition{"tags?not_contains": "z"}, true},
		{"NotContainsPresentElement", base.Condition{"tags?not_contains": "a"}, false},
		{"NestedFieldEqual", base.Condition{"profile.city": "Lisbon"}, true},
		{"NestedFieldComparison", base.Condition{"profile.score?gte": 80}, true},
		{"NestedFieldMissing", base.Condition{"profile.zip": "1000"}, false},
		{"MissingField", base.Condition{"ghost": "x"}, false},
		{"UnknownSuffixIsFieldName", base.Condition{"name?custom": "x"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := matchQuery(item, base.Query{tc.cond})
			if got != tc.want {
				t.Errorf("Expected match=%v for condition %v, got %v", tc.want, tc.cond, got)
			}
		})
	}
}

func TestMatchQueryBooleanStructure(t *testing.T) {
	item := base.Item{"key": "1", "age": float64(25), "city": "Paris"}

	if !matchQuery(item, nil) {
		t.Error("Expected nil query to match every item")
	}
	if !matchQuery(item, base.Query{}) {
		t.Error("Expected empty query to match every item")
	}

	and := base.Query{{"age?gt": 21, "city": "Paris"}}
	if !matchQuery(item, and) {
		t.Error("Expected item to satisfy both entries of one condition")
	}

	andMiss := base.Query{{"age?gt": 21, "city": "Rome"}}
	if matchQuery(item, andMiss) {
		t.Error("Expected one failing entry to reject the whole condition")
	}

	or := base.Query{{"city": "Rome"}, {"age?lt": 30}}
	if !matchQuery(item, or) {
		t.Error("Expected item to match via the second condition")
	}

	orMiss := base.Query{{"city": "Rome"}, {"age?gt": 30}}
	if matchQuery(item, orMiss) {
		t.Error("Expected item to match no condition")
	}
}
