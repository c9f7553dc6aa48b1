/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"time"
)

// timeNow is swapped out in tests that exercise relative expirations.
var timeNow = time.Now

// WriteOption configures a single write call (Put, Insert, Update).
type WriteOption func(*writeConfig)

type writeConfig struct {
	expireAt    time.Time
	expireIn    time.Duration
	hasAt       bool
	hasIn       bool
	concurrency int
}

func newWriteConfig(opts []WriteOption) writeConfig {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExpireAt sets an absolute expiration instant for the written items.
// When combined with WithExpireIn, the absolute instant wins.
func WithExpireAt(t time.Time) WriteOption {
	return func(c *writeConfig) {
		c.expireAt = t
		c.hasAt = true
	}
}

// WithExpireIn sets an expiration relative to the time of the call.
func WithExpireIn(d time.Duration) WriteOption {
	return func(c *writeConfig) {
		c.expireIn = d
		c.hasIn = true
	}
}

// WithConcurrency lets Put dispatch up to n chunk writes concurrently.
// Values below 2 keep the fully sequential path. Other write calls
// ignore this option.
func WithConcurrency(n int) WriteOption {
	return func(c *writeConfig) {
		c.concurrency = n
	}
}

// ttl resolves the configured expiration to whole epoch seconds. The
// service stores second precision only, so sub-second components are
// truncated before conversion; two instants differing only below the
// second map to the same value.
func (c writeConfig) ttl() (int64, bool) {
	switch {
	case c.hasAt:
		return c.expireAt.Truncate(time.Second).Unix(), true
	case c.hasIn:
		return timeNow().Add(c.expireIn).Truncate(time.Second).Unix(), true
	}
	return 0, false
}

// insertTTL writes the reserved expiration attribute on item per cfg.
// The item map is modified in place and returned; with no expiration
// configured it is returned untouched.
func insertTTL(item Item, cfg writeConfig) Item {
	if item == nil {
		return item
	}
	if ttl, ok := cfg.ttl(); ok {
		item[TTLAttribute] = ttl
	}
	return item
}
