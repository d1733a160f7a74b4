// hash.go -- the CDB hash function and the on-disk record codec
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component B (section 4.B): cdbHash must match bit-for-bit across
// implementations of this format -- it is load-bearing for the on-disk
// slot layout, unlike go-chd's seeded rhash/mix (chd.go), which only
// needs to be self-consistent within one frozen table. Do not replace it
// with a "better" hash; doing so changes the file format.
package ftstable

import "math"

const headerMagic = "HASH"

// headerSize is 16 (magic + reserved u32 + end_of_hashes i64) plus the
// 256-entry bucket directory (12 bytes each): 16 + 256*12 = 3088.
const headerSize = 16 + 256*bucketDirEntrySize

const bucketDirEntrySize = 12 // i64 pos + u32 count
const slotSize = 12           // u32 hash + i64 offset

// cdbHash computes the classic DJB-XOR hash used to place a key into one
// of the 256 buckets and, further, into a slot within that bucket.
func cdbHash(key []byte) uint32 {
	h := uint32(5381)
	for _, c := range key {
		h = ((h + (h << 5)) ^ uint32(c))
	}
	return h
}

// maxRecordLen is the largest key or value length a record's u32 length
// prefix can hold (2^32-1); writeRecord rejects anything longer with
// ErrKeyTooLarge.
const maxRecordLen = math.MaxUint32

// writeRecord appends a length-prefixed (key, value) record and returns
// the offset at which it starts -- section 3 "Record".
func writeRecord(w *fileWriter, key, val []byte) (int64, error) {
	if len(key) > maxRecordLen || len(val) > maxRecordLen {
		return 0, ErrKeyTooLarge
	}

	off := w.Tell()
	if err := w.WriteU32(uint32(len(key))); err != nil {
		return 0, err
	}
	if err := w.WriteU32(uint32(len(val))); err != nil {
		return 0, err
	}
	if _, err := w.Write(key); err != nil {
		return 0, err
	}
	if _, err := w.Write(val); err != nil {
		return 0, err
	}
	return off, nil
}

// readRecord decodes the (key, value) pair starting at off. The returned
// slices are zero-copy views into the mmap.
func readRecord(r *mmapReader, off int64) (key, val []byte, next int64, err error) {
	keylen, err := r.ReadU32(off)
	if err != nil {
		return nil, nil, 0, err
	}
	datalen, err := r.ReadU32(off + 4)
	if err != nil {
		return nil, nil, 0, err
	}

	keyOff := off + 8
	valOff := keyOff + int64(keylen)

	key, err = r.ReadSlice(keyOff, int(keylen))
	if err != nil {
		return nil, nil, 0, err
	}
	val, err = r.ReadSlice(valOff, int(datalen))
	if err != nil {
		return nil, nil, 0, err
	}

	return key, val, valOff + int64(datalen), nil
}
