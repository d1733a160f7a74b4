// doc.go -- package overview
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package ftstable implements the on-disk table layer of a full-text
// search engine: immutable, single-writer/many-reader hash table files
// that back a term dictionary, a term-vector dictionary, per-document
// field lengths, and stored field values.
//
// HashWriter/HashReader implement a CDB-derived perfect-probe hash
// table: bytes-to-bytes, multi-value per key, O(1) expected lookup.
// OrderedHashWriter/OrderedHashReader extend it with a sorted offset
// index for binary-search lower-bound seeks and ordered iteration.
// Typed codecs (CodedWriter/CodedReader and friends) sit on top without
// changing the file format; TermIndexWriter/Reader and
// TermVectorWriter/Reader are the concrete instances the engine uses.
// LengthWriter/Reader and StoredFieldWriter/Reader are two auxiliary
// record formats that live alongside the hash tables rather than on
// top of them.
//
// A writer constructs a file from empty to frozen in one pass and is
// never safe for concurrent use; a reader opens a frozen file read-only
// and is safe for unsynchronized concurrent readers once constructed.
// Publishing a freshly built file is the caller's responsibility --
// PublishAtomic renames a writer's temp file onto its final path once
// Close has returned.
package ftstable
