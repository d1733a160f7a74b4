// hash_test.go -- test suite for cdbHash and the record codec
package ftstable

import (
	"os"
	"testing"
)

func mustCreate(t *testing.T, fn string) *os.File {
	t.Helper()
	fd, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("create %s: %s", fn, err)
	}
	return fd
}

func mustRead(t *testing.T, fn string) []byte {
	t.Helper()
	buf, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("read %s: %s", fn, err)
	}
	return buf
}

func removeIfExists(fn string) { os.Remove(fn) }

func TestCdbHashIsDeterministic(t *testing.T) {
	assert := newAsserter(t)

	// cdb_hash must match bit-for-bit across implementations (section
	// 4.B); pin a few known values computed from the DJB-XOR recurrence
	// so an accidental change to the function is caught here, not at
	// some downstream lookup mismatch.
	cases := map[string]uint32{
		"":    5381,
		"a":   177604,
		"cat": 193416115,
	}
	for k, want := range cases {
		got := cdbHash([]byte(k))
		assert(got == want, "cdbHash(%q) = %d, want %d", k, got, want)
	}
}

func TestCdbHashDiffersOnDifferentKeys(t *testing.T) {
	assert := newAsserter(t)

	a := cdbHash([]byte("alpha"))
	b := cdbHash([]byte("beta"))
	assert(a != b, "distinct keys should (overwhelmingly likely) hash differently")
}

func TestRecordCodecRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	// writeRecord/readRecord are exercised end-to-end via HashWriter and
	// HashReader elsewhere; this isolates just the codec using an
	// in-memory mmapReader over a manually driven fileWriter.
	tmpfn := tmpFile(t, "record")
	defer removeIfExists(tmpfn)

	fd := mustCreate(t, tmpfn)
	fw := newFileWriter(fd)

	off, err := writeRecord(fw, []byte("key"), []byte("value"))
	assert(err == nil, "writeRecord: %s", err)
	assert(off == 0, "first record should start at offset 0, saw %d", off)

	off2, err := writeRecord(fw, []byte(""), []byte(""))
	assert(err == nil, "writeRecord 2: %s", err)

	fd.Close()
	buf := mustRead(t, tmpfn)
	mr := &mmapReader{buf: buf}

	k, v, next, err := readRecord(mr, off)
	assert(err == nil, "readRecord: %s", err)
	assert(string(k) == "key" && string(v) == "value", "record 1 mismatch: %s/%s", k, v)
	assert(next == off2, "next offset should be record 2's start")

	k, v, _, err = readRecord(mr, off2)
	assert(err == nil, "readRecord 2: %s", err)
	assert(len(k) == 0 && len(v) == 0, "record 2 should be empty/empty")
}
