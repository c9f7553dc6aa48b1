/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package detabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suparena/detabase/base"
	"github.com/suparena/detabase/registry"
)

// TypedBase provides type-safe operations for a specific entity type T,
// converting between T and the raw item form through JSON.
type TypedBase[T any] struct {
	base *base.Base
}

// NewTypedBase wraps an existing base client with a typed facade.
func NewTypedBase[T any](b *base.Base) *TypedBase[T] {
	return &TypedBase[T]{base: b}
}

// TypedBaseOf opens the named base through the project client and wraps
// it with a typed facade.
func TypedBaseOf[T any](c *Client, name string) (*TypedBase[T], error) {
	b, err := c.Base(name)
	if err != nil {
		return nil, err
	}
	return NewTypedBase[T](b), nil
}

// TypedResult is one page of typed query results.
type TypedResult[T any] struct {
	Items []T
	Count int
	Last  string
}

// Base returns the underlying raw client.
func (t *TypedBase[T]) Base() *base.Base {
	return t.base
}

// Get fetches the entity stored under key. A missing key returns
// (nil, nil).
func (t *TypedBase[T]) Get(ctx context.Context, key string) (*T, error) {
	item, err := t.base.Get(ctx, key)
	if err != nil || item == nil {
		return nil, err
	}
	return fromItem[T](item)
}

// Insert stores a new entity, failing if its key already exists.
func (t *TypedBase[T]) Insert(ctx context.Context, entity T, opts ...base.WriteOption) (*T, error) {
	item, err := toItem(entity)
	if err != nil {
		return nil, err
	}
	created, err := t.base.Insert(ctx, item, opts...)
	if err != nil {
		return nil, err
	}
	return fromItem[T](created)
}

// Put stores entities, overwriting existing keys, and returns them as
// processed by the service.
func (t *TypedBase[T]) Put(ctx context.Context, entities []T, opts ...base.WriteOption) ([]T, error) {
	items := make([]base.Item, 0, len(entities))
	for _, entity := range entities {
		item, err := toItem(entity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	processed, err := t.base.Put(ctx, items, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(processed))
	for _, item := range processed {
		entity, err := fromItem[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, *entity)
	}
	return out, nil
}

// Update applies an update to the entity stored under key.
func (t *TypedBase[T]) Update(ctx context.Context, key string, u *base.ItemUpdate, opts ...base.WriteOption) error {
	return t.base.Update(ctx, key, u, opts...)
}

// Query runs a single query page and decodes the items into T.
func (t *TypedBase[T]) Query(ctx context.Context, q base.Query, opts ...base.QueryOption) (*TypedResult[T], error) {
	res, err := t.base.Query(ctx, q, opts...)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(res.Items))
	for _, item := range res.Items {
		entity, err := fromItem[T](item)
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}
	return &TypedResult[T]{Items: items, Count: res.Count, Last: res.Last}, nil
}

// QueryAll follows the cursor until exhaustion and decodes every item.
func (t *TypedBase[T]) QueryAll(ctx context.Context, q base.Query, opts ...base.QueryOption) ([]T, error) {
	raw, err := t.base.QueryAll(ctx, q, opts...)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(raw))
	for _, item := range raw {
		entity, err := fromItem[T](item)
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}
	return items, nil
}

// Delete removes the entity stored under key. Deleting a missing key is
// not an error.
func (t *TypedBase[T]) Delete(ctx context.Context, key string) error {
	return t.base.Delete(ctx, key)
}

// Remove deletes an entity by resolving its key through the registry.
func (t *TypedBase[T]) Remove(ctx context.Context, entity T) error {
	key, err := registry.KeyOf(entity)
	if err != nil {
		return fmt.Errorf("failed to resolve entity key: %w", err)
	}
	return t.base.Delete(ctx, key)
}

func toItem[T any](entity T) (base.Item, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	var item base.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to convert entity to item: %w", err)
	}
	return item, nil
}

func fromItem[T any](item base.Item) (*T, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}
	entity := new(T)
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("failed to decode item into %T: %w", entity, err)
	}
	return entity, nil
}
