// cache.go -- optional read-through ARC cache in front of a HashReader
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Ambient stack addition: go-chd/dbreader.go caches decoded records in
// an ARCCache keyed by the lookup key; this generalizes that idiom to
// an arbitrary HashReader without touching the wire format -- the cache
// sits entirely in front of Get, never changing what's on disk.
package ftstable

import (
	lru "github.com/opencoff/golang-lru"
)

// CachedHashReader wraps a HashReader with an ARC cache of decoded
// values, trading memory for repeat-lookup latency the way a term
// dictionary hot path wants.
type CachedHashReader struct {
	hr    *HashReader
	cache *lru.ARCCache
}

// NewCachedHashReader wraps hr with an ARC cache holding up to size
// entries (size <= 0 defaults to 128, matching go-chd's DBReader).
func NewCachedHashReader(hr *HashReader, size int) (*CachedHashReader, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &CachedHashReader{hr: hr, cache: c}, nil
}

// Get returns the first value for key, populating the cache on miss.
// The returned slice is owned by the cache; callers must copy it if
// they intend to retain it past a subsequent Close.
func (c *CachedHashReader) Get(key []byte) ([]byte, error) {
	ck := string(key)
	if v, ok := c.cache.Get(ck); ok {
		return v.([]byte), nil
	}

	v, err := c.hr.Get(key)
	if err != nil {
		return nil, err
	}

	c.cache.Add(ck, v)
	return v, nil
}

// Close purges the cache and releases the underlying reader.
func (c *CachedHashReader) Close() error {
	c.cache.Purge()
	return c.hr.Close()
}
