/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/detabase/base"
)

// KeyFunc extracts the item key from an entity.
type KeyFunc func(entity any) (string, error)

var (
	keyFuncRegistry = make(map[reflect.Type]KeyFunc)
	mu              sync.RWMutex
)

// RegisterKeyFunc associates a Go type T with a custom key extractor.
// Registering a second extractor for the same type replaces the first.
func RegisterKeyFunc[T any](fn func(T) (string, error)) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	keyFuncRegistry[t] = func(entity any) (string, error) {
		typed, ok := entity.(T)
		if !ok {
			return "", fmt.Errorf("key registry: expected %T, got %T", zero, entity)
		}
		return fn(typed)
	}
}

// GetKeyFunc retrieves the key extractor registered for type T, if any.
func GetKeyFunc[T any]() (KeyFunc, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	fn, ok := keyFuncRegistry[t]
	return fn, ok
}

// KeyOf returns the item key for an entity. A registered extractor takes
// precedence; otherwise the reserved key field of the entity's JSON form is
// used. An entity with no registered extractor and no key field yields an
// error.
func KeyOf[T any](entity T) (string, error) {
	if fn, ok := GetKeyFunc[T](); ok {
		return fn(entity)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("key registry: marshal entity: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("key registry: entity is not an object: %w", err)
	}

	raw, ok := fields[base.KeyAttribute]
	if !ok {
		return "", fmt.Errorf("key registry: no %q field on %T and no key func registered", base.KeyAttribute, entity)
	}

	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", fmt.Errorf("key registry: %q field on %T is not a string: %w", base.KeyAttribute, entity, err)
	}
	if key == "" {
		return "", fmt.Errorf("key registry: empty %q field on %T", base.KeyAttribute, entity)
	}
	return key, nil
}
