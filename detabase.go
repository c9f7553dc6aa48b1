/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package detabase

import (
	"sort"
	"sync"

	"github.com/suparena/detabase/base"
)

// Client is a project-level handle: it validates the data key once and
// hands out per-base clients, caching them by base name.
type Client struct {
	mu        sync.RWMutex
	dataKey   string
	projectID string
	opts      []base.Option
	bases     map[string]*base.Base
}

// New creates a project client from a data key of the form
// "<project id>_<secret>". The options are applied to every base the
// client opens.
func New(dataKey string, opts ...base.Option) (*Client, error) {
	projectID, _, err := base.ParseDataKey(dataKey)
	if err != nil {
		return nil, err
	}
	return &Client{
		dataKey:   dataKey,
		projectID: projectID,
		opts:      opts,
		bases:     make(map[string]*base.Base),
	}, nil
}

// ProjectID returns the project id parsed from the data key.
func (c *Client) ProjectID() string {
	return c.projectID
}

// Base returns the client for the named base, creating and caching it on
// first use. Repeated calls with the same name share one instance.
func (c *Client) Base(name string) (*base.Base, error) {
	c.mu.RLock()
	b, ok := c.bases[name]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.bases[name]; ok {
		return b, nil
	}
	b, err := base.New(c.dataKey, name, c.opts...)
	if err != nil {
		return nil, err
	}
	c.bases[name] = b
	return b, nil
}

// Bases returns the names of all bases opened so far, sorted.
func (c *Client) Bases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.bases))
	for name := range c.bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
