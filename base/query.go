/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"context"
	"fmt"
	"net/http"

	"github.com/suparena/detabase/errors"
	"github.com/suparena/detabase/internal/httpx"
)

// QueryOption configures a single query call.
type QueryOption func(*queryConfig)

type queryConfig struct {
	limit int
	last  string
}

// WithLimit caps the number of items per page. The service default and
// ceiling is DefaultQueryLimit.
func WithLimit(n int) QueryOption {
	return func(c *queryConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLast continues a query from the cursor returned by the previous
// page.
func WithLast(cursor string) QueryOption {
	return func(c *queryConfig) {
		c.last = cursor
	}
}

// queryRequest always carries all three keys. A nil filter transmits as
// JSON null and matches every item.
type queryRequest struct {
	Query Query   `json:"query"`
	Limit int     `json:"limit"`
	Last  *string `json:"last"`
}

type queryResponse struct {
	Items  []Item `json:"items"`
	Paging struct {
		Size int    `json:"size"`
		Last string `json:"last"`
	} `json:"paging"`
}

// Query fetches one page of items matching q. Pages are key-ordered. The
// caller drives the pagination loop: while the returned Last cursor is
// non-empty, call again with WithLast(res.Last) and accumulate. One page
// per invocation keeps early termination cheap; QueryAll and Stream wrap
// the loop for callers that want everything.
//
// A failed request is an error, never a silently empty page, so an empty
// result always means "no matching items".
func (b *Base) Query(ctx context.Context, q Query, opts ...QueryOption) (*QueryResult, error) {
	cfg := queryConfig{limit: DefaultQueryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	req := queryRequest{Limit: cfg.limit}
	if len(q) > 0 {
		req.Query = q
	}
	if cfg.last != "" {
		req.Last = &cfg.last
	}

	body, _, err := httpx.WithJSONBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query body: %w", err)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "query",
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := httpx.ReadAllAndClose(resp.Body)
		return nil, errors.NewRequestError("query", resp.StatusCode, string(respBody))
	}

	var out queryResponse
	if err := httpx.DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	return &QueryResult{
		Items: out.Items,
		Count: out.Paging.Size,
		Last:  out.Paging.Last,
	}, nil
}

// QueryAll runs the pagination loop to completion and returns every item
// matching q. WithLimit still controls the page size of the underlying
// calls; WithLast sets the starting cursor.
func (b *Base) QueryAll(ctx context.Context, q Query, opts ...QueryOption) ([]Item, error) {
	cfg := queryConfig{limit: DefaultQueryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	var items []Item
	last := cfg.last
	for {
		res, err := b.Query(ctx, q, WithLimit(cfg.limit), WithLast(last))
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if res.Last == "" {
			return items, nil
		}
		last = res.Last
	}
}
