// coded_test.go -- test suite for the generic coded layers
package ftstable

import (
	"encoding/binary"
	"errors"
	"os"
	"testing"
)

func u32KeyCoder(k uint32) ([]byte, error) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], k)
	return b[:], nil
}

func strValCoder(v string) ([]byte, error) { return []byte(v), nil }
func strValDecoder(b []byte) (string, error) { return string(b), nil }

var errUnknownTestField = errors.New("unknown field")

// knownFieldKeyCoder simulates the TermIndex/TermVector unknown-field
// behavior described in section 4.D: encoding a key for a field the
// writer never saw fails, and OrderedCodedReader.Contains must swallow
// that to false rather than propagate it.
func knownFieldKeyCoder(known map[string]bool) KeyCoder[string] {
	return func(k string) ([]byte, error) {
		if !known[k] {
			return nil, errUnknownTestField
		}
		return []byte(k), nil
	}
}

func TestCodedWriterReaderRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "coded")
	defer os.Remove(fn)

	hw, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)

	cw := NewCodedWriter[uint32, string](hw, u32KeyCoder, strValCoder)
	assert(cw.Add(1, "one") == nil, "add 1")
	assert(cw.Add(2, "two") == nil, "add 2")
	assert(cw.Close() == nil, "close")
	assert(cw.Publish() == nil, "publish")

	hr, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)

	cr := NewCodedReader[uint32, string](hr, u32KeyCoder, strValDecoder)
	v, err := cr.Get(1)
	assert(err == nil, "get 1: %s", err)
	assert(v == "one", "exp one, saw %s", v)

	_, err = cr.Get(99)
	assert(err == ErrNotFound, "exp ErrNotFound, saw %s", err)

	cr.Close()
}

func TestOrderedCodedReaderContainsSwallowsKeyError(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "codedorder")
	defer os.Remove(fn)

	ow, err := NewOrderedHashWriter(fn)
	assert(err == nil, "new writer: %s", err)

	known := map[string]bool{"body": true}
	ecoder := knownFieldKeyCoder(known)

	cw := NewOrderedCodedWriter[string, string](ow, ecoder, strValCoder)
	assert(cw.Add("body", "hello") == nil, "add body")
	assert(cw.Close() == nil, "close")
	assert(cw.Publish() == nil, "publish")

	or, err := OpenOrderedHashReader(fn)
	assert(err == nil, "open: %s", err)

	cr := NewOrderedCodedReader[string, string](or, ecoder, strValDecoder)
	assert(cr.Contains("body"), "expected body to be present")
	assert(!cr.Contains("title"), "unknown field must resolve to false, not error")

	cr.Close()
}
