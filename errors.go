// errors.go -- sentinel errors for the table layer
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package ftstable

import (
	"errors"
	"fmt"
)

func errShortWrite(n, exp int) error {
	return fmt.Errorf("ftstable: incomplete write; exp %d, saw %d", exp, n)
}

var (
	// ErrFrozen is returned when attempting to add new records to an already
	// frozen (closed) writer, or to freeze one twice.
	ErrFrozen = errors.New("table already frozen")

	// ErrNotFound is returned when a lookup key has no matching record.
	ErrNotFound = errors.New("key not found")

	// ErrKeysOutOfOrder is returned by an OrderedHashWriter when a new key
	// is not strictly greater than the previously inserted key.
	ErrKeysOutOfOrder = errors.New("keys out of order")

	// ErrFormat is returned when the magic, header size, or record-length
	// constraints are violated on read -- including the legacy CDB layout,
	// which this implementation cannot reproduce the original hash for and
	// therefore refuses outright.
	ErrFormat = errors.New("malformed table file")

	// ErrIndexOutOfRange is returned by StoredFieldReader.Get for a document
	// number outside [0, doc_count).
	ErrIndexOutOfRange = errors.New("document index out of range")

	// ErrKeyTooLarge is returned when a key or value exceeds 2^32-1 bytes.
	ErrKeyTooLarge = errors.New("key or value exceeds 2^32-1 bytes")

	// ErrUnknownField names a field that was never registered in the field
	// map. Nothing in this package returns it: TermIndexReader and
	// TermVectorReader map an unknown field to unknownFieldNumber instead.
	ErrUnknownField = errors.New("unknown field name")
)

// unknownFieldNumber is the sentinel field number (component E) that can
// never match a real field: field numbers are assigned in [0, 65535) by
// fieldMap, so 65535 is reserved as "no such field".
const unknownFieldNumber = 0xFFFF
