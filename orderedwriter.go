// orderedwriter.go -- OrderedHashWriter: adds a sorted offset index
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component C (section 4.C). Reuses HashWriter.addRecord and plugs its
// sorted-index emission into HashWriter.closeCore's phase-2 hook -- the
// same "shared core, injected phase" shape go-chd/dbwriter.go uses to
// let a single Freeze() do header patching regardless of what preceded
// it.
package ftstable

import "bytes"

// OrderedHashWriter wraps a HashWriter and additionally enforces strictly
// increasing keys, recording each accepted record's offset so close() can
// emit the sorted index described in section 3.
type OrderedHashWriter struct {
	hw      *HashWriter
	lastKey []byte
	hasLast bool
	index   []int64
}

// NewOrderedHashWriter creates fn.tmp.<random> exactly as NewHashWriter
// does.
func NewOrderedHashWriter(fn string) (*OrderedHashWriter, error) {
	hw, err := NewHashWriter(fn)
	if err != nil {
		return nil, err
	}
	return &OrderedHashWriter{hw: hw}, nil
}

func (w *OrderedHashWriter) TempPath() string { return w.hw.TempPath() }
func (w *OrderedHashWriter) Path() string     { return w.hw.Path() }

// Add appends (key, val). key must be strictly greater than the
// previously added key (byte-lexicographic), else ErrKeysOutOfOrder and
// the file is left untouched for this call (no partial state beyond
// what was already durably appended by earlier, accepted calls).
func (w *OrderedHashWriter) Add(key, val []byte) error {
	if w.hw.frozen {
		return ErrFrozen
	}
	if w.hasLast && bytes.Compare(key, w.lastKey) <= 0 {
		return ErrKeysOutOfOrder
	}

	off, err := w.hw.addRecord(key, val)
	if err != nil {
		return err
	}

	w.index = append(w.index, off)
	w.lastKey = append([]byte(nil), key...)
	w.hasLast = true
	return nil
}

// AddAll appends a batch of strictly increasing (key, value) pairs,
// stopping at the first violation.
func (w *OrderedHashWriter) AddAll(items []KV) error {
	for _, it := range items {
		if err := w.Add(it.Key, it.Val); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the table: the hash zone (phase 1), the sorted index
// (phase 2), then the header (phase 3).
func (w *OrderedHashWriter) Close() error {
	return w.hw.closeCore(w.writeIndex)
}

func (w *OrderedHashWriter) writeIndex(fw *fileWriter) error {
	return fw.WriteArrayI64(w.index)
}

// Abort discards the writer and removes the scratch file.
func (w *OrderedHashWriter) Abort() error { return w.hw.Abort() }

// Publish atomically renames the frozen scratch file onto Path().
func (w *OrderedHashWriter) Publish() error { return w.hw.Publish() }
