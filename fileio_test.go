// fileio_test.go -- test suite for fileWriter/mmapReader
package ftstable

import (
	"os"
	"testing"
)

func TestFileWriterRewindResetsOffset(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "filewriter")
	defer os.Remove(fn)

	fd, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	assert(err == nil, "create: %s", err)
	defer fd.Close()

	fw := newFileWriter(fd)
	assert(fw.WriteU32(1) == nil, "write u32")
	assert(fw.WriteU32(2) == nil, "write u32")
	assert(fw.Tell() == 8, "exp offset 8, saw %d", fw.Tell())

	assert(fw.Rewind() == nil, "rewind")
	assert(fw.Tell() == 0, "exp offset 0 after rewind, saw %d", fw.Tell())

	assert(fw.WriteU32(99) == nil, "overwrite first u32")
	assert(fw.Tell() == 4, "exp offset 4 after one more write, saw %d", fw.Tell())
}

func TestFileWriterTypedRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "filewritertyped")
	defer os.Remove(fn)

	fd, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	assert(err == nil, "create: %s", err)

	fw := newFileWriter(fd)
	assert(fw.WriteByte(7) == nil, "byte")
	assert(fw.WriteU16(1000) == nil, "u16")
	assert(fw.WriteU32(100000) == nil, "u32")
	assert(fw.WriteI64(-5) == nil, "i64")
	assert(fw.WriteF32(1.5) == nil, "f32")
	assert(fw.WriteF64(2.5) == nil, "f64")
	assert(fw.WriteString("hi") == nil, "string")
	fd.Close()

	buf, err := os.ReadFile(fn)
	assert(err == nil, "read: %s", err)

	mr := &mmapReader{buf: buf}
	var off int64

	b, err := mr.ReadByte(off)
	assert(err == nil && b == 7, "byte mismatch")
	off++

	u16, err := mr.ReadU16(off)
	assert(err == nil && u16 == 1000, "u16 mismatch")
	off += 2

	u32, err := mr.ReadU32(off)
	assert(err == nil && u32 == 100000, "u32 mismatch")
	off += 4

	i64, err := mr.ReadI64(off)
	assert(err == nil && i64 == -5, "i64 mismatch")
	off += 8

	f32, err := mr.ReadF32(off)
	assert(err == nil && f32 == 1.5, "f32 mismatch")
	off += 4

	f64, err := mr.ReadF64(off)
	assert(err == nil && f64 == 2.5, "f64 mismatch")
	off += 8

	s, next, err := mr.ReadString(off)
	assert(err == nil && s == "hi", "string mismatch: %s", s)
	assert(next == int64(len(buf)), "string read should consume to end of file")
}

func TestMmapReaderOutOfBounds(t *testing.T) {
	assert := newAsserter(t)

	mr := &mmapReader{buf: []byte{1, 2, 3}}
	_, err := mr.ReadU32(0)
	assert(err != nil, "reading 4 bytes from a 3-byte buffer should fail")

	_, err = mr.ReadByte(3)
	assert(err != nil, "reading past the end should fail")

	_, err = mr.ReadByte(-1)
	assert(err != nil, "negative offset should fail")
}
