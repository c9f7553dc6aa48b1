/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/suparena/detabase/errors"
	"github.com/suparena/detabase/internal/httpx"
)

// Option configures a Base at construction.
type Option func(*config)

type config struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     hclog.Logger
}

// WithEndpoint overrides the remote API root, for example to point the
// client at a local test server.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient supplies the http.Client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) {
		c.httpClient = h
	}
}

// WithTimeout overrides the default 10 second request timeout. It has no
// effect when WithHTTPClient supplies a client of its own.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithLogger attaches a logger; request details are emitted at debug
// level.
func WithLogger(logger hclog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Base is the client for one named collection of items. All methods are
// safe for concurrent use; no state is shared across calls beyond the
// transport.
type Base struct {
	name      string
	projectID string
	client    *httpx.Client
	logger    hclog.Logger
}

// New constructs a client for the named base. The data key is validated
// immediately, so a malformed credential fails here rather than on the
// first call.
func New(dataKey, baseName string, opts ...Option) (*Base, error) {
	projectID, _, err := ParseDataKey(dataKey)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(baseName) == "" {
		return nil, errors.NewValidationError("baseName", "must not be empty")
	}

	cfg := config{
		endpoint: DefaultEndpoint,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.Named("base").With("base", baseName)

	headers := make(http.Header)
	headers.Set("X-API-Key", dataKey)
	headers.Set("Content-Type", "application/json")

	httpOpts := []httpx.Option{
		httpx.WithHeaders(headers),
		httpx.WithLogger(logger),
	}
	if cfg.timeout > 0 {
		httpOpts = append(httpOpts, httpx.WithTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		httpOpts = append(httpOpts, httpx.WithHTTPClient(cfg.httpClient))
	}

	client, err := httpx.NewClient(
		strings.TrimRight(cfg.endpoint, "/")+"/"+projectID+"/"+baseName,
		httpOpts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build base client: %w", err)
	}

	return &Base{
		name:      baseName,
		projectID: projectID,
		client:    client,
		logger:    logger,
	}, nil
}

// Name returns the base name.
func (b *Base) Name() string {
	return b.name
}

func itemPath(key string) string {
	return "items/" + url.PathEscape(key)
}

// Get retrieves a single item by key. A missing key is not an error: the
// result is (nil, nil), mirroring the service's 404 for this path.
func (b *Base) Get(ctx context.Context, key string) (Item, error) {
	if key == "" {
		return nil, errors.NewValidationError("key", "must not be empty")
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   itemPath(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		httpx.DrainAndClose(resp)
		return nil, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var item Item
		if err := httpx.DecodeJSON(resp, &item); err != nil {
			return nil, fmt.Errorf("failed to decode item %q: %w", key, err)
		}
		return item, nil
	default:
		body, _ := httpx.ReadAllAndClose(resp.Body)
		return nil, errors.NewRequestError("get", resp.StatusCode, string(body))
	}
}

// Delete removes the item stored under key. The service reports nothing
// useful in the response status for this path, so it is ignored entirely:
// deleting a missing key succeeds and only transport failures surface.
func (b *Base) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodDelete,
		Path:   itemPath(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	httpx.DrainAndClose(resp)
	return nil
}

type insertRequest struct {
	Item Item `json:"item"`
}

// Insert stores item only if its key is not already taken. An item
// without a key field gets one assigned by the service; the created item,
// key included, is returned. Inserting an existing key yields an
// AlreadyExistsError.
func (b *Base) Insert(ctx context.Context, item Item, opts ...WriteOption) (Item, error) {
	if item == nil {
		return nil, errors.NewValidationError("item", "must not be nil")
	}

	insertTTL(item, newWriteConfig(opts))

	body, _, err := httpx.WithJSONBody(insertRequest{Item: item})
	if err != nil {
		return nil, fmt.Errorf("failed to encode insert body: %w", err)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "items",
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var created Item
		if err := httpx.DecodeJSON(resp, &created); err != nil {
			return nil, fmt.Errorf("failed to decode inserted item: %w", err)
		}
		return created, nil
	case http.StatusConflict:
		httpx.DrainAndClose(resp)
		return nil, errors.NewAlreadyExistsError(b.name, item.Key())
	default:
		respBody, _ := httpx.ReadAllAndClose(resp.Body)
		return nil, errors.NewRequestError("insert", resp.StatusCode, string(respBody))
	}
}

// Update applies the accumulated operations in u to the item stored under
// key. Expiration write options are merged into the set category for this
// call only; the caller's builder is left untouched. Updating a missing
// key yields a NotFoundError.
func (b *Base) Update(ctx context.Context, key string, u *ItemUpdate, opts ...WriteOption) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}
	if u == nil {
		u = NewUpdate()
	}

	var extra map[string]any
	if ttl, ok := newWriteConfig(opts).ttl(); ok {
		extra = map[string]any{TTLAttribute: ttl}
	}

	body, _, err := httpx.WithJSONBody(u.serialize(extra))
	if err != nil {
		return fmt.Errorf("failed to encode update body: %w", err)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPatch,
		Path:   itemPath(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to update %q: %w", key, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		httpx.DrainAndClose(resp)
		return errors.NewNotFoundError(b.name, key)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		httpx.DrainAndClose(resp)
		return nil
	default:
		respBody, _ := httpx.ReadAllAndClose(resp.Body)
		return errors.NewRequestError("update", resp.StatusCode, string(respBody))
	}
}
