// coded.go -- typed key/value codecs layered over the byte-string tables
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component D (section 4.D). go-chd has no generic layer to ground this
// on (its DBWriter/DBReader are fixed to uint64 keys); this follows the
// shape of a thin wrapper type composing two pure functions, the same
// pattern the coder pairs in section 4.D describe, expressed with Go
// generics instead of the source language's duck typing.
package ftstable

// KeyCoder turns a typed key into its on-disk byte encoding.
type KeyCoder[K any] func(key K) ([]byte, error)

// ValueCoder turns a typed value into its on-disk byte encoding.
type ValueCoder[V any] func(val V) ([]byte, error)

// ValueDecoder turns an on-disk byte encoding back into a typed value.
type ValueDecoder[V any] func(b []byte) (V, error)

// CodedWriter wraps a HashWriter with typed key/value coders. The file
// format is unchanged; only the API boundary gains types.
type CodedWriter[K, V any] struct {
	hw    *HashWriter
	ekey  KeyCoder[K]
	eval  ValueCoder[V]
}

func NewCodedWriter[K, V any](hw *HashWriter, ekey KeyCoder[K], eval ValueCoder[V]) *CodedWriter[K, V] {
	return &CodedWriter[K, V]{hw: hw, ekey: ekey, eval: eval}
}

func (w *CodedWriter[K, V]) Add(key K, val V) error {
	kb, err := w.ekey(key)
	if err != nil {
		return err
	}
	vb, err := w.eval(val)
	if err != nil {
		return err
	}
	return w.hw.Add(kb, vb)
}

func (w *CodedWriter[K, V]) Close() error   { return w.hw.Close() }
func (w *CodedWriter[K, V]) Abort() error   { return w.hw.Abort() }
func (w *CodedWriter[K, V]) Publish() error { return w.hw.Publish() }

// CodedReader wraps a HashReader with typed key/value coders.
type CodedReader[K, V any] struct {
	hr    *HashReader
	ekey  KeyCoder[K]
	dval  ValueDecoder[V]
}

func NewCodedReader[K, V any](hr *HashReader, ekey KeyCoder[K], dval ValueDecoder[V]) *CodedReader[K, V] {
	return &CodedReader[K, V]{hr: hr, ekey: ekey, dval: dval}
}

func (r *CodedReader[K, V]) Get(key K) (V, error) {
	var zero V
	kb, err := r.ekey(key)
	if err != nil {
		return zero, err
	}
	vb, err := r.hr.Get(kb)
	if err != nil {
		return zero, err
	}
	return r.dval(vb)
}

// Contains reports whether key is present. A key-encoding failure (an
// unknown field name, for a TermIndex/TermVector key) is swallowed to
// false rather than surfaced, per section 4.D.
func (r *CodedReader[K, V]) Contains(key K) bool {
	kb, err := r.ekey(key)
	if err != nil {
		return false
	}
	return r.hr.Contains(kb)
}

func (r *CodedReader[K, V]) Close() error { return r.hr.Close() }

// OrderedCodedWriter wraps an OrderedHashWriter with typed coders.
type OrderedCodedWriter[K, V any] struct {
	ow   *OrderedHashWriter
	ekey KeyCoder[K]
	eval ValueCoder[V]
}

func NewOrderedCodedWriter[K, V any](ow *OrderedHashWriter, ekey KeyCoder[K], eval ValueCoder[V]) *OrderedCodedWriter[K, V] {
	return &OrderedCodedWriter[K, V]{ow: ow, ekey: ekey, eval: eval}
}

func (w *OrderedCodedWriter[K, V]) Add(key K, val V) error {
	kb, err := w.ekey(key)
	if err != nil {
		return err
	}
	vb, err := w.eval(val)
	if err != nil {
		return err
	}
	return w.ow.Add(kb, vb)
}

func (w *OrderedCodedWriter[K, V]) Close() error   { return w.ow.Close() }
func (w *OrderedCodedWriter[K, V]) Abort() error   { return w.ow.Abort() }
func (w *OrderedCodedWriter[K, V]) Publish() error { return w.ow.Publish() }

// OrderedCodedReader wraps an OrderedHashReader with typed coders.
type OrderedCodedReader[K, V any] struct {
	or   *OrderedHashReader
	ekey KeyCoder[K]
	dval ValueDecoder[V]
}

func NewOrderedCodedReader[K, V any](or *OrderedHashReader, ekey KeyCoder[K], dval ValueDecoder[V]) *OrderedCodedReader[K, V] {
	return &OrderedCodedReader[K, V]{or: or, ekey: ekey, dval: dval}
}

func (r *OrderedCodedReader[K, V]) Get(key K) (V, error) {
	var zero V
	kb, err := r.ekey(key)
	if err != nil {
		return zero, err
	}
	vb, err := r.or.Get(kb)
	if err != nil {
		return zero, err
	}
	return r.dval(vb)
}

// Contains swallows a key-encoding error (unknown field) to false -- the
// explicit error-swallowing point named in section 7. CodedReader.Contains
// does the same.
func (r *OrderedCodedReader[K, V]) Contains(key K) bool {
	kb, err := r.ekey(key)
	if err != nil {
		return false
	}
	return r.or.Contains(kb)
}

func (r *OrderedCodedReader[K, V]) Close() error { return r.or.Close() }
