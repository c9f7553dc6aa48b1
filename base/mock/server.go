/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/suparena/detabase/base"
)

// Handler returns an http.Handler implementing the Base HTTP API on top of
// the in-memory store. Point a real client at httptest.NewServer(m.Handler())
// to exercise the full wire path in tests.
func (m *Base) Handler() http.Handler {
	return http.HandlerFunc(m.serveHTTP)
}

func (m *Base) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Split the escaped path so keys containing "/" stay one segment.
	segs := strings.Split(strings.Trim(r.URL.EscapedPath(), "/"), "/")
	if len(segs) < 3 || segs[1] != m.name {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch segs[2] {
	case "query":
		if len(segs) != 3 {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		m.handleQuery(w, r)
	case "items":
		switch len(segs) {
		case 3:
			switch r.Method {
			case http.MethodPut:
				m.handlePut(w, r)
			case http.MethodPost:
				m.handleInsert(w, r)
			default:
				writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		case 4:
			key, err := url.PathUnescape(segs[3])
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid key")
				return
			}
			switch r.Method {
			case http.MethodGet:
				m.handleGet(w, key)
			case http.MethodDelete:
				m.handleDelete(w, key)
			case http.MethodPatch:
				m.handleUpdate(w, r, key)
			default:
				writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		default:
			writeError(w, http.StatusNotFound, "Not found")
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// authorized checks the X-API-Key header: an exact match when a key was
// configured with WithAPIKey, any non-empty value otherwise.
func (m *Base) authorized(r *http.Request) bool {
	key := r.Header.Get("X-API-Key")
	if m.apiKey != "" {
		return key == m.apiKey
	}
	return key != ""
}

func (m *Base) handlePut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []base.Item `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "No items to process")
		return
	}
	if len(req.Items) > base.MaxChunkSize {
		writeError(w, http.StatusBadRequest, "Cannot process more than 25 items at a time")
		return
	}

	m.mu.Lock()
	stored := make([]base.Item, 0, len(req.Items))
	for _, item := range req.Items {
		stored = append(stored, m.store(item))
	}
	m.mu.Unlock()

	writeJSON(w, http.StatusMultiStatus, map[string]any{
		"processed": map[string]any{"items": stored},
	})
}

func (m *Base) handleGet(w http.ResponseWriter, key string) {
	m.mu.RLock()
	item := copyItem(m.live(key))
	m.mu.RUnlock()

	if item == nil {
		writeError(w, http.StatusNotFound, "Key not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDelete removes the key and reports success whether or not it existed,
// matching the service's fire-and-forget delete.
func (m *Base) handleDelete(w http.ResponseWriter, key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

func (m *Base) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item base.Item `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Item == nil {
		writeError(w, http.StatusBadRequest, "No item to insert")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key := req.Item.Key(); key != "" && m.live(key) != nil {
		writeError(w, http.StatusConflict, "Key already exists")
		return
	}
	writeJSON(w, http.StatusCreated, m.store(req.Item))
}

func (m *Base) handleUpdate(w http.ResponseWriter, r *http.Request, key string) {
	var req struct {
		Set       map[string]any     `json:"set"`
		Increment map[string]float64 `json:"increment"`
		Append    map[string][]any   `json:"append"`
		Delete    []string           `json:"delete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.live(key)
	if item == nil {
		writeError(w, http.StatusNotFound, "Key not found")
		return
	}

	// Validate everything before mutating so a bad request leaves the
	// item untouched.
	if touchesKey(req.Set) || touchesKey(req.Increment) || touchesKey(req.Append) ||
		slices.Contains(req.Delete, base.KeyAttribute) {
		writeError(w, http.StatusBadRequest, "Cannot update the key")
		return
	}
	for field := range req.Increment {
		if cur, exists := resolve(item, field); exists {
			if _, ok := toFloat(cur); !ok {
				writeError(w, http.StatusBadRequest, "Field "+field+" is not a number")
				return
			}
		}
	}
	for field := range req.Append {
		if cur, exists := resolve(item, field); exists {
			if _, ok := asSlice(cur); !ok {
				writeError(w, http.StatusBadRequest, "Field "+field+" is not a list")
				return
			}
		}
	}

	for field, value := range req.Set {
		setField(item, field, value)
	}
	for field, delta := range req.Increment {
		cur := 0.0
		if existing, exists := resolve(item, field); exists {
			cur, _ = toFloat(existing)
		}
		setField(item, field, cur+delta)
	}
	for field, values := range req.Append {
		list := []any{}
		if existing, exists := resolve(item, field); exists {
			list, _ = asSlice(existing)
		}
		setField(item, field, append(list, values...))
	}
	for _, field := range req.Delete {
		deleteField(item, field)
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

func (m *Base) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query base.Query `json:"query"`
		Limit int        `json:"limit"`
		Last  *string    `json:"last"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = base.DefaultQueryLimit
	}
	start := ""
	if req.Last != nil {
		start = *req.Last
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	collected := make([]base.Item, 0, limit)
	lastKey := ""
	more := false
	for _, key := range m.liveKeys() {
		if start != "" && key <= start {
			continue
		}
		item := m.items[key]
		if !matchQuery(item, req.Query) {
			continue
		}
		if len(collected) == limit {
			more = true
			break
		}
		collected = append(collected, copyItem(item))
		lastKey = key
	}

	paging := map[string]any{"size": len(collected)}
	if more {
		paging["last"] = lastKey
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  collected,
		"paging": paging,
	})
}

func touchesKey[V any](fields map[string]V) bool {
	_, ok := fields[base.KeyAttribute]
	return ok
}

// setField writes a possibly dotted field path, creating intermediate
// maps as needed.
func setField(item base.Item, path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(item)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func deleteField(item base.Item, path string) {
	parts := strings.Split(path, ".")
	cur := map[string]any(item)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, parts[len(parts)-1])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"errors": []string{message}})
}
