// termvector.go -- (doc, field) -> posting-list offset dictionary
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component E (section 4.E). Unlike TermIndex this is unordered --
// nothing scans term vectors by range -- so it sits directly on
// HashWriter/HashReader, with the field map riding along via the same
// closeCore extra hook.
package ftstable

import "encoding/binary"

// termVectorKey encodes <u32 doc_number><u16 field_number> = 6 bytes.
func termVectorKey(doc uint32, fieldNum uint16) []byte {
	var b [6]byte
	binary.BigEndian.PutUint32(b[:4], doc)
	binary.BigEndian.PutUint16(b[4:], fieldNum)
	return b[:]
}

func termVectorValue(postingOffset int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(postingOffset))
	return b[:]
}

func decodeTermVectorValue(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, ErrFormat
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// TermVectorWriter builds the (doc, field) -> posting-offset dictionary.
type TermVectorWriter struct {
	hw *HashWriter
	fm *fieldMap
}

func NewTermVectorWriter(fn string) (*TermVectorWriter, error) {
	hw, err := NewHashWriter(fn)
	if err != nil {
		return nil, err
	}
	return &TermVectorWriter{hw: hw, fm: newFieldMap()}, nil
}

// Add records the offset of doc's posting list for field.
func (w *TermVectorWriter) Add(doc uint32, field string, postingOffset int64) error {
	num := w.fm.numberFor(field)
	return w.hw.Add(termVectorKey(doc, num), termVectorValue(postingOffset))
}

// Close emits the hash zone, then the field-name map, then the header.
func (w *TermVectorWriter) Close() error {
	return w.hw.closeCore(w.fm.writeTo)
}

func (w *TermVectorWriter) Abort() error   { return w.hw.Abort() }
func (w *TermVectorWriter) Publish() error { return w.hw.Publish() }

// TermVectorReader serves (doc, field) -> posting-offset lookups.
type TermVectorReader struct {
	hr *HashReader
	fm *fieldMap
}

func OpenTermVectorReader(fn string) (*TermVectorReader, error) {
	hr, err := OpenHashReader(fn)
	if err != nil {
		return nil, err
	}

	fm, _, err := readFieldMap(hr.mmap(), hr.EndOfHashes())
	if err != nil {
		hr.Close()
		return nil, err
	}

	return &TermVectorReader{hr: hr, fm: fm}, nil
}

func (r *TermVectorReader) fieldNumber(field string) uint16 {
	if n, ok := r.fm.byName[field]; ok {
		return n
	}
	return unknownFieldNumber
}

func (r *TermVectorReader) Get(doc uint32, field string) (int64, error) {
	vb, err := r.hr.Get(termVectorKey(doc, r.fieldNumber(field)))
	if err != nil {
		return 0, err
	}
	return decodeTermVectorValue(vb)
}

// Contains reports whether (doc, field) is present.
func (r *TermVectorReader) Contains(doc uint32, field string) bool {
	return r.hr.Contains(termVectorKey(doc, r.fieldNumber(field)))
}

func (r *TermVectorReader) Close() error { return r.hr.Close() }
