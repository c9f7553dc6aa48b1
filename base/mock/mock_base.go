/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suparena/detabase/base"
)

// Base is an in-memory base with the remote service's item, query and
// TTL semantics. It is safe for concurrent use.
type Base struct {
	mu     sync.RWMutex
	name   string
	apiKey string
	items  map[string]base.Item
	now    func() time.Time
}

// New creates an empty mock base. By default any non-empty API key is
// accepted and the clock is time.Now.
func New(name string) *Base {
	return &Base{
		name:  name,
		items: make(map[string]base.Item),
		now:   time.Now,
	}
}

// WithAPIKey makes the wire handler require this exact key.
func (m *Base) WithAPIKey(key string) *Base {
	m.apiKey = key
	return m
}

// WithNow overrides the clock used for TTL expiry.
func (m *Base) WithNow(now func() time.Time) *Base {
	m.now = now
	return m
}

// Name returns the base name.
func (m *Base) Name() string {
	return m.name
}

// Seed stores items directly, bypassing the wire contract. Items without
// a key get one generated. The stored copies are returned.
func (m *Base) Seed(items ...base.Item) []base.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]base.Item, 0, len(items))
	for _, item := range items {
		stored = append(stored, m.store(item))
	}
	return stored
}

// Get returns a copy of the item stored under key, or nil when the key
// is absent or the item has expired.
func (m *Base) Get(key string) base.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyItem(m.live(key))
}

// Items returns copies of all live items in key order.
func (m *Base) Items() []base.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]base.Item, 0, len(m.items))
	for _, key := range m.liveKeys() {
		items = append(items, copyItem(m.items[key]))
	}
	return items
}

// Len returns the number of live items.
func (m *Base) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.liveKeys())
}

// Clear removes all items.
func (m *Base) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]base.Item)
}

// store inserts a copy of item, generating a key when missing, and
// returns the stored copy. Caller holds the write lock.
func (m *Base) store(item base.Item) base.Item {
	stored := copyItem(item)
	if stored == nil {
		stored = base.Item{}
	}
	key := stored.Key()
	if key == "" {
		key = generateKey()
		stored[base.KeyAttribute] = key
	}
	m.items[key] = stored
	return copyItem(stored)
}

// live returns the item stored under key, or nil when absent or
// expired. Caller holds at least the read lock.
func (m *Base) live(key string) base.Item {
	item, ok := m.items[key]
	if !ok || m.expired(item) {
		return nil
	}
	return item
}

// liveKeys returns the keys of all unexpired items in sorted order.
// Caller holds at least the read lock.
func (m *Base) liveKeys() []string {
	keys := make([]string, 0, len(m.items))
	for key, item := range m.items {
		if !m.expired(item) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// expired reports whether the item's TTL attribute lies in the past.
// The service deletes such items lazily; the mock just hides them.
func (m *Base) expired(item base.Item) bool {
	ttl, ok := item[base.TTLAttribute]
	if !ok {
		return false
	}
	seconds, ok := toFloat(ttl)
	if !ok {
		return false
	}
	return float64(m.now().Unix()) >= seconds
}

// copyItem deep-copies an item through JSON, detaching it from caller
// maps. Values come back in their JSON form (numbers as float64).
func copyItem(item base.Item) base.Item {
	if item == nil {
		return nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var out base.Item
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// generateKey mirrors the service's auto-assigned keys: short, opaque
// and unique.
func generateKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
