// dbwriter.go -- HashWriter: the core CDB-derived immutable hash table writer
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component B (section 4.B). Grounded on go-chd/dbwriter.go's overall
// shape (write to a ".tmp.<rand>" file, buffer per-key metadata in
// memory, finalize and rewrite the header on Close/Freeze) but built
// around the spec's fixed 256-bucket open-addressed slot table instead
// of a minimal perfect hash function.
package ftstable

import (
	"fmt"
	"os"
)

// KV is a single key/value pair fed to a writer's AddAll.
type KV struct {
	Key []byte
	Val []byte
}

type bucketEntry struct {
	hash   uint32
	offset int64
}

type bucketDirEntry struct {
	pos   int64
	count uint32
}

// HashWriter constructs an immutable CDB-style hash table one record at a
// time. It is single-threaded and exclusive (section 5): no reader may
// observe the file until Close (and Publish) have returned.
type HashWriter struct {
	fd      *os.File
	fw      *fileWriter
	path    string // final destination, chosen by the caller
	tmpPath string // scratch file actually being written

	buckets [256][]bucketEntry

	frozen    bool
	published bool
}

// NewHashWriter creates fn.tmp.<random> and reserves header_size bytes of
// zeroes for the header, exactly mirroring go-chd.NewDBWriter's "leave
// some space for a header; we will fill this in when we are done".
func NewHashWriter(fn string) (*HashWriter, error) {
	tmp := fmt.Sprintf("%s.tmp.%d", fn, rand32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	w := &HashWriter{
		fd:      fd,
		fw:      newFileWriter(fd),
		path:    fn,
		tmpPath: tmp,
	}

	var zero [headerSize]byte
	if _, err := w.fw.Write(zero[:]); err != nil {
		fd.Close()
		os.Remove(tmp)
		return nil, err
	}

	return w, nil
}

// TempPath returns the scratch file currently being written.
func (w *HashWriter) TempPath() string { return w.tmpPath }

// Path returns the final destination path this writer was created for.
func (w *HashWriter) Path() string { return w.path }

// Add appends a single (key, value) record.
func (w *HashWriter) Add(key, val []byte) error {
	return w.AddAll([]KV{{Key: key, Val: val}})
}

// AddAll appends a batch of (key, value) records in order. Records with
// equal keys are all retained -- duplicate-key semantics are resolved at
// lookup time (section 4.B "get" returns the first; "all" yields every
// value in insertion order).
func (w *HashWriter) AddAll(items []KV) error {
	if w.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		if _, err := w.addRecord(it.Key, it.Val); err != nil {
			return err
		}
	}
	return nil
}

// addRecord is the shared primitive used by both HashWriter and
// OrderedHashWriter: write the record, register its (hash, offset) into
// the bucket it belongs to, and return the offset for callers (the
// ordered variant needs it for its sorted index).
func (w *HashWriter) addRecord(key, val []byte) (int64, error) {
	off, err := writeRecord(w.fw, key, val)
	if err != nil {
		return 0, err
	}

	h := cdbHash(key)
	b := h & 0xFF
	w.buckets[b] = append(w.buckets[b], bucketEntry{hash: h, offset: off})
	return off, nil
}

// Close finalizes the table: phase 1 (hash zone), phase 3 (header
// rewrite), with no phase 2. See closeCore.
func (w *HashWriter) Close() error {
	return w.closeCore(nil)
}

// Abort discards the writer and removes the scratch file without
// producing a valid table.
func (w *HashWriter) Abort() error {
	w.fd.Close()
	return os.Remove(w.tmpPath)
}

// Publish atomically renames the now-frozen scratch file onto Path(),
// per the caller contract in section 6 ("typical pattern: write to temp
// file, close(), rename"). It must be called only after a successful
// Close.
func (w *HashWriter) Publish() error {
	if !w.frozen {
		return fmt.Errorf("ftstable: Publish called before Close")
	}
	if w.published {
		return nil
	}
	if err := PublishAtomic(w.tmpPath, w.path); err != nil {
		return err
	}
	w.published = true
	return nil
}

// closeCore executes the three phases from section 4.B. extra, when
// non-nil, runs between phase 1 (hash zone) and phase 3 (header
// rewrite) -- this is phase 2, used only by OrderedHashWriter to emit
// the sorted index (and, for TermIndexWriter/TermVectorWriter, the field
// map). It returns only an error.
func (w *HashWriter) closeCore(extra func(*fileWriter) error) (err error) {
	if w.frozen {
		return ErrFrozen
	}

	defer func() {
		if err != nil {
			w.fd.Close()
			os.Remove(w.tmpPath)
		}
	}()

	var dir [256]bucketDirEntry

	for i := 0; i < 256; i++ {
		entries := w.buckets[i]
		n := 2 * len(entries)

		dir[i] = bucketDirEntry{pos: w.fw.Tell(), count: uint32(n)}
		if n == 0 {
			continue
		}

		slots := make([]bucketEntry, n) // zero value (0,0) == empty slot
		for _, e := range entries {
			idx := int(e.hash>>8) % n
			for slots[idx].offset != 0 {
				idx = (idx + 1) % n
			}
			slots[idx] = e
		}

		for _, s := range slots {
			if err = w.fw.WriteU32(s.hash); err != nil {
				return err
			}
			if err = w.fw.WriteI64(s.offset); err != nil {
				return err
			}
		}
	}

	endOfHashes := w.fw.Tell()

	if extra != nil {
		if err = extra(w.fw); err != nil {
			return err
		}
	}

	if err = w.fw.Rewind(); err != nil {
		return err
	}

	if _, err = w.fw.Write([]byte(headerMagic)); err != nil {
		return err
	}
	if err = w.fw.WriteU32(0); err != nil {
		return err
	}
	if err = w.fw.WriteI64(endOfHashes); err != nil {
		return err
	}
	for i := 0; i < 256; i++ {
		if err = w.fw.WriteI64(dir[i].pos); err != nil {
			return err
		}
		if err = w.fw.WriteU32(dir[i].count); err != nil {
			return err
		}
	}

	if w.fw.Tell() != headerSize {
		err = fmt.Errorf("ftstable: internal error: header rewrite ended at %d, want %d", w.fw.Tell(), headerSize)
		return err
	}

	if err = w.fd.Sync(); err != nil {
		return err
	}
	if err = w.fd.Close(); err != nil {
		return err
	}

	w.frozen = true
	return nil
}
