// termindex.go -- (field, term) -> TermInfo dictionary
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component E (section 4.E). Built on OrderedHashWriter/Reader because
// query planning needs range scans over terms within a field; the field
// map rides along after the sorted index, using HashWriter.closeCore's
// extra hook the same way OrderedHashWriter itself does for the index.
package ftstable

import "encoding/binary"

// termIndexKey encodes <u16 field_number, big-endian><UTF-8 term text>.
// Ordering sorts primarily by field number (assignment order), then
// lexicographically by term bytes -- not alphabetically by field name.
func termIndexKey(fieldNum uint16, term string) []byte {
	b := make([]byte, 2+len(term))
	binary.BigEndian.PutUint16(b, fieldNum)
	copy(b[2:], term)
	return b
}

// TermIndexWriter builds the (field, term) -> TermInfo dictionary.
type TermIndexWriter struct {
	ow *OrderedHashWriter
	fm *fieldMap
}

func NewTermIndexWriter(fn string) (*TermIndexWriter, error) {
	ow, err := NewOrderedHashWriter(fn)
	if err != nil {
		return nil, err
	}
	return &TermIndexWriter{ow: ow, fm: newFieldMap()}, nil
}

// Add records ti under (field, term). Within a field, terms must be
// added in strictly increasing UTF-8 byte order, and all of a field's
// terms must be added before the first term of the next new field
// (ErrKeysOutOfOrder otherwise): a new field takes the next field
// number, so returning to an earlier field is out of order. New fields
// may be introduced in any name order.
func (w *TermIndexWriter) Add(field, term string, ti *TermInfo) error {
	num := w.fm.numberFor(field)
	val, err := ti.ToBytes()
	if err != nil {
		return err
	}
	return w.ow.Add(termIndexKey(num, term), val)
}

// Close emits the hash zone, the sorted index, then the field-name map,
// then the header -- in that order, per section 4.E.
func (w *TermIndexWriter) Close() error {
	return w.ow.hw.closeCore(func(fw *fileWriter) error {
		if err := w.ow.writeIndex(fw); err != nil {
			return err
		}
		return w.fm.writeTo(fw)
	})
}

func (w *TermIndexWriter) Abort() error   { return w.ow.Abort() }
func (w *TermIndexWriter) Publish() error { return w.ow.Publish() }

// TermIndexReader serves (field, term) -> TermInfo lookups and ordered
// scans over a field's terms.
type TermIndexReader struct {
	or *OrderedHashReader
	fm *fieldMap
}

func OpenTermIndexReader(fn string) (*TermIndexReader, error) {
	or, err := OpenOrderedHashReader(fn)
	if err != nil {
		return nil, err
	}

	fieldMapOff := or.indexBase + int64(or.indexCount)*8
	fm, _, err := readFieldMap(or.hr.mmap(), fieldMapOff)
	if err != nil {
		or.Close()
		return nil, err
	}

	return &TermIndexReader{or: or, fm: fm}, nil
}

// fieldNumber returns field's assigned number, or the sentinel
// unknownFieldNumber (65535) if field was never seen by the writer --
// a value that can never collide with a real assignment since field
// numbers are assigned densely starting at 0.
func (r *TermIndexReader) fieldNumber(field string) uint16 {
	if n, ok := r.fm.byName[field]; ok {
		return n
	}
	return unknownFieldNumber
}

func (r *TermIndexReader) Get(field, term string) (*TermInfo, error) {
	vb, err := r.or.Get(termIndexKey(r.fieldNumber(field), term))
	if err != nil {
		return nil, err
	}
	return TermInfoFromBytes(vb)
}

// Contains reports whether (field, term) is present. An unknown field
// name resolves to the sentinel number and therefore never matches, so
// this returns false without needing to special-case it.
func (r *TermIndexReader) Contains(field, term string) bool {
	return r.or.Contains(termIndexKey(r.fieldNumber(field), term))
}

// termInfoBytes returns the raw (mmap-backed) TermInfo record for
// (field, term); the lazy accessors below decode single fields out of it
// without materializing the whole record.
func (r *TermIndexReader) termInfoBytes(field, term string) (*mmapReader, error) {
	vb, err := r.or.Get(termIndexKey(r.fieldNumber(field), term))
	if err != nil {
		return nil, err
	}
	return &mmapReader{buf: vb}, nil
}

// Frequency reads just the summed term weight of (field, term).
func (r *TermIndexReader) Frequency(field, term string) (float32, error) {
	mr, err := r.termInfoBytes(field, term)
	if err != nil {
		return 0, err
	}
	return readFrequency(mr, 0)
}

// DocFreq reads just the document frequency of (field, term).
func (r *TermIndexReader) DocFreq(field, term string) (uint32, error) {
	mr, err := r.termInfoBytes(field, term)
	if err != nil {
		return 0, err
	}
	return readDocFreq(mr, 0)
}

// MinAndMaxLength reads just the encoded min/max field-length bytes of
// (field, term).
func (r *TermIndexReader) MinAndMaxLength(field, term string) (min, max byte, err error) {
	mr, err := r.termInfoBytes(field, term)
	if err != nil {
		return 0, 0, err
	}
	return readMinAndMaxLength(mr, 0)
}

// MaxWeight reads just the per-document maximum weight of (field, term).
func (r *TermIndexReader) MaxWeight(field, term string) (float32, error) {
	mr, err := r.termInfoBytes(field, term)
	if err != nil {
		return 0, err
	}
	return readMaxWeight(mr, 0)
}

// MaxWOL reads just the maximum weight-over-length of (field, term).
func (r *TermIndexReader) MaxWOL(field, term string) (float32, error) {
	mr, err := r.termInfoBytes(field, term)
	if err != nil {
		return 0, err
	}
	return readMaxWOL(mr, 0)
}

// TermsFrom scans terms within field in ascending order starting at the
// first term >= term, stopping at fn's request or when the field's
// terms are exhausted.
func (r *TermIndexReader) TermsFrom(field, term string, fn func(term string, ti *TermInfo) bool) error {
	num := r.fieldNumber(field)
	start := termIndexKey(num, term)

	var derr error
	err := r.or.ItemsFrom(start, func(k, v []byte) bool {
		if len(k) < 2 || binary.BigEndian.Uint16(k) != num {
			return false
		}
		ti, err := TermInfoFromBytes(v)
		if err != nil {
			derr = err
			return false
		}
		return fn(string(k[2:]), ti)
	})
	if err != nil {
		return err
	}
	return derr
}

func (r *TermIndexReader) Close() error { return r.or.Close() }
