/*
   Simple World  - persistence layer

   Copyright 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

package store

import "sync"

// cacheKey identifies one cached row by table and ID.
type cacheKey struct {
	table string
	id    int64
}

// rowCache is a small guarded map used to avoid re-querying a row fetched
// earlier in the same transaction. It holds plain interface{} values; the
// typed accessors in entities.go do the type assertion.
type rowCache struct {
	mu   sync.Mutex
	rows map[cacheKey]any
}

func newRowCache() rowCache {
	return rowCache{rows: make(map[cacheKey]any)}
}

func (c *rowCache) get(table string, id int64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.rows[cacheKey{table, id}]
	return v, ok
}

func (c *rowCache) put(table string, id int64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[cacheKey{table, id}] = v
}

func (c *rowCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = make(map[cacheKey]any)
}
