/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/suparena/detabase/errors"
	"github.com/suparena/detabase/internal/httpx"
	"golang.org/x/sync/errgroup"
)

type putRequest struct {
	Items []Item `json:"items"`
}

type putResponse struct {
	Processed struct {
		Items []Item `json:"items"`
	} `json:"processed"`
}

// Put writes items unconditionally, overwriting existing keys. The input
// is split into consecutive chunks of at most MaxChunkSize items and one
// write request is issued per chunk; every chunk is attempted even when an
// earlier one fails. The returned slice concatenates, in input order, the
// items the service reports as processed. Chunk-level failures are
// aggregated into the returned error. Items the service silently dropped
// inside an accepted chunk are visible only by diffing input against
// output.
//
// With WithConcurrency(n), up to n chunk requests are in flight at once;
// result and error order still follow chunk order. An empty input returns
// (nil, nil) without issuing a request.
func (b *Base) Put(ctx context.Context, items []Item, opts ...WriteOption) ([]Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	cfg := newWriteConfig(opts)
	for _, item := range items {
		insertTTL(item, cfg)
	}

	chunks := chunkItems(items, MaxChunkSize)
	results := make([][]Item, len(chunks))
	chunkErrs := make([]error, len(chunks))

	if cfg.concurrency > 1 {
		var g errgroup.Group
		g.SetLimit(cfg.concurrency)
		for i, chunk := range chunks {
			i, chunk := i, chunk
			g.Go(func() error {
				results[i], chunkErrs[i] = b.putChunk(ctx, i, chunk)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, chunk := range chunks {
			results[i], chunkErrs[i] = b.putChunk(ctx, i, chunk)
		}
	}

	var processed []Item
	var merr *multierror.Error
	for i := range chunks {
		if chunkErrs[i] != nil {
			merr = multierror.Append(merr, chunkErrs[i])
			continue
		}
		processed = append(processed, results[i]...)
	}
	return processed, merr.ErrorOrNil()
}

// putChunk issues the write request for one chunk. Anything other than
// the service's 207 multi-status is a failed chunk.
func (b *Base) putChunk(ctx context.Context, index int, chunk []Item) ([]Item, error) {
	body, _, err := httpx.WithJSONBody(putRequest{Items: chunk})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chunk %d: %w", index, err)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPut,
		Path:   "items",
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put chunk %d: %w", index, err)
	}

	if resp.StatusCode != http.StatusMultiStatus {
		respBody, _ := httpx.ReadAllAndClose(resp.Body)
		return nil, fmt.Errorf("chunk %d: %w", index, errors.NewRequestError("put", resp.StatusCode, string(respBody)))
	}

	var out putResponse
	if err := httpx.DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("failed to decode chunk %d response: %w", index, err)
	}
	return out.Processed.Items, nil
}

// chunkItems partitions items into consecutive chunks of at most size
// elements; the final chunk may be shorter. Chunks share the backing
// array of items.
func chunkItems(items []Item, size int) [][]Item {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]Item, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
