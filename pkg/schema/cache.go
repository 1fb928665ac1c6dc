// Copyright 2025 The tempdocs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import "sync"

// Cache stores fetched schema documents keyed by (kind, version). It is an
// explicit object injected into the Provider at construction time rather
// than package-global state, so tests and repeated runs start clean.
//
// Entries are never invalidated; Clear drops the whole cache between runs.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Document
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Document)}
}

func cacheKey(kind, version string) string {
	return kind + "@" + version
}

// Get returns the cached document for (kind, version), if any.
func (c *Cache) Get(kind, version string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.entries[cacheKey(kind, version)]
	return doc, ok
}

// Put stores a document for (kind, version).
func (c *Cache) Put(kind, version string, doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(kind, version)] = doc
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Document)
}
