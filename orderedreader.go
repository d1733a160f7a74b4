// orderedreader.go -- OrderedHashReader: binary-search lower-bound seeks
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component C (section 4.C). Wraps HashReader and adds the sorted-index
// walk; grounded on the same mmap-and-decode shape as dbreader.go, with
// the index treated as a second, smaller region past end_of_hashes.
package ftstable

import "bytes"

// OrderedHashReader serves everything HashReader does, plus binary-search
// lower-bound lookups and ordered iteration from an arbitrary key.
type OrderedHashReader struct {
	hr *HashReader

	indexBase  int64
	indexCount int
}

// OpenOrderedHashReader opens fn and parses the sorted index that follows
// the hash zone.
func OpenOrderedHashReader(fn string) (*OrderedHashReader, error) {
	hr, err := OpenHashReader(fn)
	if err != nil {
		return nil, err
	}

	r := &OrderedHashReader{hr: hr}
	if err := r.decodeIndex(); err != nil {
		hr.Close()
		return nil, err
	}

	return r, nil
}

func (r *OrderedHashReader) decodeIndex() error {
	mr := r.hr.mmap()
	n, err := mr.ReadU32(r.hr.EndOfHashes())
	if err != nil {
		return err
	}
	r.indexCount = int(n)
	r.indexBase = r.hr.EndOfHashes() + 4
	return nil
}

// Close releases the underlying HashReader's resources.
func (r *OrderedHashReader) Close() error { return r.hr.Close() }

// Get returns the first value inserted for key, or ErrNotFound.
func (r *OrderedHashReader) Get(key []byte) ([]byte, error) { return r.hr.Get(key) }

// Contains reports whether key is present.
func (r *OrderedHashReader) Contains(key []byte) bool { return r.hr.Contains(key) }

// Len reports the number of records (equivalently, the index length).
func (r *OrderedHashReader) Len() int { return r.indexCount }

func (r *OrderedHashReader) offsetAt(i int) (int64, error) {
	return r.hr.mmap().ReadI64(r.indexBase + int64(i)*8)
}

func (r *OrderedHashReader) keyAt(off int64) ([]byte, error) {
	k, _, _, err := readRecord(r.hr.mmap(), off)
	return k, err
}

// lowerBound returns the smallest index position i such that the key of
// record index i is >= key, or indexCount if none.
func (r *OrderedHashReader) lowerBound(key []byte) (int, error) {
	lo, hi := 0, r.indexCount
	for lo < hi {
		mid := (lo + hi) / 2
		midOff, err := r.offsetAt(mid)
		if err != nil {
			return 0, err
		}
		midKey, err := r.keyAt(midOff)
		if err != nil {
			return 0, err
		}
		if bytes.Compare(midKey, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// ClosestKeyOffset returns the file offset of the first record whose key
// is >= key, via binary search over the sorted index. ok is false if no
// such record exists (key is greater than every stored key).
func (r *OrderedHashReader) ClosestKeyOffset(key []byte) (off int64, ok bool, err error) {
	lo, err := r.lowerBound(key)
	if err != nil {
		return 0, false, err
	}
	if lo == r.indexCount {
		return 0, false, nil
	}
	off, err = r.offsetAt(lo)
	return off, err == nil, err
}

// ItemsFrom walks records in key order starting at the first key >= key,
// calling fn for each until fn returns false or the index is exhausted.
func (r *OrderedHashReader) ItemsFrom(key []byte, fn func(k, v []byte) bool) error {
	lo, err := r.lowerBound(key)
	if err != nil {
		return err
	}
	for i := lo; i < r.indexCount; i++ {
		off, err := r.offsetAt(i)
		if err != nil {
			return err
		}
		k, v, _, err := readRecord(r.hr.mmap(), off)
		if err != nil {
			return err
		}
		if !fn(k, v) {
			return nil
		}
	}
	return nil
}

// Items walks every record in key-ascending order.
func (r *OrderedHashReader) Items(fn func(k, v []byte) bool) error {
	for i := 0; i < r.indexCount; i++ {
		off, err := r.offsetAt(i)
		if err != nil {
			return err
		}
		k, v, _, err := readRecord(r.hr.mmap(), off)
		if err != nil {
			return err
		}
		if !fn(k, v) {
			return nil
		}
	}
	return nil
}
