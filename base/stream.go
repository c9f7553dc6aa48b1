/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"context"
	"fmt"
	"time"
)

// StreamResult is one delivery on a stream channel: an item, or a
// terminal error after which the channel closes.
type StreamResult struct {
	Item Item
	Err  error
	Meta StreamMeta
}

// StreamMeta describes where in the stream an item was seen.
type StreamMeta struct {
	// Index is the 0-based position in the stream.
	Index int64
	// Page is the 1-based page number the item arrived on.
	Page int
	// Timestamp is when the item was received.
	Timestamp time.Time
}

// StreamOptions configures streaming behavior.
type StreamOptions struct {
	// BufferSize is the result channel buffer (default 100).
	BufferSize int
	// PageSize is the number of items fetched per page (default 100).
	PageSize int
	// ProgressHandler, when set, is invoked after every page.
	ProgressHandler func(StreamProgress)
}

// StreamProgress reports a stream's position after each page.
type StreamProgress struct {
	ItemsProcessed int64
	PagesProcessed int
	LastKey        string
	StartTime      time.Time
	CurrentRate    float64
}

// StreamOption is a functional option for Stream.
type StreamOption func(*StreamOptions)

func defaultStreamOptions() StreamOptions {
	return StreamOptions{
		BufferSize: 100,
		PageSize:   100,
	}
}

// WithBufferSize sets the result channel buffer size.
func WithBufferSize(size int) StreamOption {
	return func(o *StreamOptions) {
		if size > 0 {
			o.BufferSize = size
		}
	}
}

// WithPageSize sets the number of items fetched per page.
func WithPageSize(size int) StreamOption {
	return func(o *StreamOptions) {
		if size > 0 {
			o.PageSize = size
		}
	}
}

// WithProgressHandler installs a callback invoked after every page.
func WithProgressHandler(handler func(StreamProgress)) StreamOption {
	return func(o *StreamOptions) {
		o.ProgressHandler = handler
	}
}

// Stream runs the pagination loop in a goroutine and delivers matching
// items on the returned channel. The channel closes when the result set
// is exhausted, a page fails (after delivering the error), or ctx is
// cancelled. Each delivery carries stream position metadata.
func (b *Base) Stream(ctx context.Context, q Query, opts ...StreamOption) <-chan StreamResult {
	options := defaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ch := make(chan StreamResult, options.BufferSize)
	go b.streamWorker(ctx, q, options, ch)
	return ch
}

func (b *Base) streamWorker(ctx context.Context, q Query, options StreamOptions, ch chan<- StreamResult) {
	defer close(ch)

	var index int64
	page := 0
	start := time.Now()
	last := ""

	report := func(lastKey string) {
		if options.ProgressHandler == nil {
			return
		}
		progress := StreamProgress{
			ItemsProcessed: index,
			PagesProcessed: page,
			LastKey:        lastKey,
			StartTime:      start,
		}
		if elapsed := time.Since(start).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(index) / elapsed
		}
		options.ProgressHandler(progress)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := b.Query(ctx, q, WithLimit(options.PageSize), WithLast(last))
		if err != nil {
			result := StreamResult{
				Err: fmt.Errorf("stream query failed: %w", err),
				Meta: StreamMeta{
					Index:     index,
					Page:      page + 1,
					Timestamp: time.Now(),
				},
			}
			select {
			case ch <- result:
			case <-ctx.Done():
			}
			return
		}
		page++

		for _, item := range res.Items {
			result := StreamResult{
				Item: item,
				Meta: StreamMeta{
					Index:     index,
					Page:      page,
					Timestamp: time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return
			case ch <- result:
			}
			index++
		}

		report(res.Last)

		if res.Last == "" {
			return
		}
		last = res.Last
	}
}
