// dbreader.go -- HashReader: constant-time lookups over a frozen table
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component B (section 4.B). Grounded on go-chd/dbreader.go's overall
// shape (stat, mmap, decode a fixed header, serve lookups against the
// mmap) but decoding the spec's 256-bucket open-addressed directory
// instead of a CHD minimal perfect hash.
package ftstable

import (
	"bytes"
	"fmt"
	"os"
)

// HashReader serves constant-time lookups against a table built by
// HashWriter. Once constructed it is immutable and safe for
// unsynchronized concurrent readers (section 5).
type HashReader struct {
	fd  *os.File
	buf []byte
	mr  *mmapReader

	endOfHashes   int64
	buckets       [256]bucketDirEntry
	startOfHashes int64
}

// OpenHashReader mmaps fn and parses its header. It returns ErrFormat if
// the file is too small or the magic does not match "HASH".
func OpenHashReader(fn string) (*HashReader, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	buf, err := mmapFile(fd)
	if err != nil {
		fd.Close()
		return nil, err
	}

	r := &HashReader{fd: fd, buf: buf, mr: &mmapReader{buf: buf}}
	if err := r.decodeHeader(); err != nil {
		munmap(buf)
		fd.Close()
		return nil, err
	}

	return r, nil
}

func (r *HashReader) decodeHeader() error {
	if len(r.buf) < headerSize {
		return fmt.Errorf("%w: file smaller than header (%d < %d)", ErrFormat, len(r.buf), headerSize)
	}

	magic, err := r.mr.ReadSlice(0, 4)
	if err != nil {
		return err
	}
	if string(magic) != headerMagic {
		return fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}

	endOfHashes, err := r.mr.ReadI64(8)
	if err != nil {
		return err
	}
	r.endOfHashes = endOfHashes

	for i := 0; i < 256; i++ {
		base := int64(16 + i*bucketDirEntrySize)
		pos, err := r.mr.ReadI64(base)
		if err != nil {
			return err
		}
		count, err := r.mr.ReadU32(base + 8)
		if err != nil {
			return err
		}
		r.buckets[i] = bucketDirEntry{pos: pos, count: count}
	}

	// The writer records bucket 0's position before writing anything for
	// it, whether or not it ends up empty -- so this always marks the end
	// of the record region, and equals headerSize for a table with no
	// records at all (section 9's "all buckets empty" open question
	// resolves without a special case).
	r.startOfHashes = r.buckets[0].pos

	return nil
}

// Close unmaps the file and releases the file handle. Calling it twice
// is a programming error (section 5).
func (r *HashReader) Close() error {
	if err := munmap(r.buf); err != nil {
		return err
	}
	return r.fd.Close()
}

// EndOfHashes returns the file offset immediately after the hash zone --
// where a sorted index (if any) begins. Used by OrderedHashReader.
func (r *HashReader) EndOfHashes() int64 { return r.endOfHashes }

func (r *HashReader) mmap() *mmapReader { return r.mr }

// Get returns the first value inserted for key, or ErrNotFound.
func (r *HashReader) Get(key []byte) ([]byte, error) {
	h := cdbHash(key)
	dir := r.buckets[h&0xFF]
	if dir.count == 0 {
		return nil, ErrNotFound
	}

	n := int(dir.count)
	idx := int(h>>8) % n

	for i := 0; i < n; i++ {
		slotPos := dir.pos + int64(idx)*slotSize
		sh, err := r.mr.ReadU32(slotPos)
		if err != nil {
			return nil, err
		}
		soff, err := r.mr.ReadI64(slotPos + 4)
		if err != nil {
			return nil, err
		}
		if soff == 0 {
			return nil, ErrNotFound
		}
		if sh == h {
			k, v, _, err := readRecord(r.mr, soff)
			if err != nil {
				return nil, err
			}
			if bytes.Equal(k, key) {
				return v, nil
			}
		}
		idx = (idx + 1) % n
	}

	return nil, ErrNotFound
}

// All returns every value stored under key, in insertion order.
func (r *HashReader) All(key []byte) ([][]byte, error) {
	h := cdbHash(key)
	dir := r.buckets[h&0xFF]
	if dir.count == 0 {
		return nil, nil
	}

	n := int(dir.count)
	idx := int(h>>8) % n

	var out [][]byte
	for i := 0; i < n; i++ {
		slotPos := dir.pos + int64(idx)*slotSize
		sh, err := r.mr.ReadU32(slotPos)
		if err != nil {
			return nil, err
		}
		soff, err := r.mr.ReadI64(slotPos + 4)
		if err != nil {
			return nil, err
		}
		if soff == 0 {
			break
		}
		if sh == h {
			k, v, _, err := readRecord(r.mr, soff)
			if err != nil {
				return nil, err
			}
			if bytes.Equal(k, key) {
				out = append(out, v)
			}
		}
		idx = (idx + 1) % n
	}

	return out, nil
}

// Contains reports whether key is present, without decoding its value.
func (r *HashReader) Contains(key []byte) bool {
	_, err := r.Get(key)
	return err == nil
}

// Each calls fn for every (key, value) pair in insertion order, stopping
// early (without error) if fn returns false.
func (r *HashReader) Each(fn func(key, val []byte) bool) error {
	pos := int64(headerSize)
	for pos < r.startOfHashes {
		k, v, next, err := readRecord(r.mr, pos)
		if err != nil {
			return err
		}
		if !fn(k, v) {
			return nil
		}
		pos = next
	}
	return nil
}

// Keys returns every key in insertion order (duplicates included).
func (r *HashReader) Keys() ([][]byte, error) {
	var out [][]byte
	err := r.Each(func(k, _ []byte) bool {
		out = append(out, append([]byte(nil), k...))
		return true
	})
	return out, err
}

// Values returns every value in insertion order.
func (r *HashReader) Values() ([][]byte, error) {
	var out [][]byte
	err := r.Each(func(_, v []byte) bool {
		out = append(out, append([]byte(nil), v...))
		return true
	})
	return out, err
}

// Len reports the number of records stored (not the number of distinct
// keys -- duplicates count individually, per section 8 property 7).
func (r *HashReader) Len() (int, error) {
	n := 0
	err := r.Each(func(_, _ []byte) bool { n++; return true })
	return n, err
}
