// db_test.go -- test suite for HashWriter/HashReader
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package ftstable

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"testing"
)

var keep bool

func init() {
	flag.BoolVar(&keep, "keep", false, "Keep test DB")
}

var keyw = []string{
	"expectoration",
	"mizzenmastman",
	"stockfather",
	"pictorialness",
	"villainous",
	"unpermanent",
	"nonmelodious",
	"pyelic",
	"cyanogenetic",
	"impestation",
}

func tmpFile(t *testing.T, pat string) string {
	return fmt.Sprintf("%s/%s%d.db", os.TempDir(), pat, rand.Int())
}

func TestHashBasic(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hash")
	defer func() {
		if !keep {
			os.Remove(fn)
		}
	}()

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)

	assert(w.Add([]byte("alpha"), []byte("1")) == nil, "add alpha")
	assert(w.Add([]byte("beta"), []byte("2")) == nil, "add beta")
	assert(w.Add([]byte("gamma"), []byte("3")) == nil, "add gamma")

	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open reader: %s", err)
	defer r.Close()

	v, err := r.Get([]byte("beta"))
	assert(err == nil, "get beta: %s", err)
	assert(string(v) == "2", "beta: exp 2, saw %s", v)

	_, err = r.Get([]byte("missing"))
	assert(err == ErrNotFound, "missing: exp ErrNotFound, saw %s", err)

	keys, err := r.Keys()
	assert(err == nil, "keys: %s", err)
	strs := make([]string, len(keys))
	for i, k := range keys {
		strs[i] = string(k)
	}
	sort.Strings(strs)
	assert(len(strs) == 3 && strs[0] == "alpha" && strs[1] == "beta" && strs[2] == "gamma",
		"keys mismatch: %v", strs)
}

func TestHashManyKeys(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hashmany")
	defer func() {
		if !keep {
			os.Remove(fn)
		}
	}()

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)

	kv := make(map[string]string, len(keyw))
	for i, s := range keyw {
		v := fmt.Sprintf("%d", i)
		assert(w.Add([]byte(s), []byte(v)) == nil, "add %s", s)
		kv[s] = v
	}
	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)
	defer r.Close()

	for k, v := range kv {
		got, err := r.Get([]byte(k))
		assert(err == nil, "get %s: %s", k, err)
		assert(string(got) == v, "key %s: exp %s, saw %s", k, v, got)
	}

	for i := 0; i < 10; i++ {
		_, err := r.Get([]byte(fmt.Sprintf("nosuchkey%d", i)))
		assert(err == ErrNotFound, "expected ErrNotFound for nosuchkey%d", i)
	}
}

func TestHashDuplicateKeys(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hashdup")
	defer os.Remove(fn)

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)
	assert(w.Add([]byte("k"), []byte("v1")) == nil, "add v1")
	assert(w.Add([]byte("k"), []byte("v2")) == nil, "add v2")
	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)
	defer r.Close()

	v, err := r.Get([]byte("k"))
	assert(err == nil, "get: %s", err)
	assert(string(v) == "v1", "get should return first-inserted value, saw %s", v)

	all, err := r.All([]byte("k"))
	assert(err == nil, "all: %s", err)
	assert(len(all) == 2, "exp 2 values, saw %d", len(all))
	assert(string(all[0]) == "v1" && string(all[1]) == "v2", "all order mismatch: %v", all)
}

func TestHashEmptyTable(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hashempty")
	defer os.Remove(fn)

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)
	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)
	defer r.Close()

	_, err = r.Get([]byte("anything"))
	assert(err == ErrNotFound, "exp ErrNotFound on empty table")

	n, err := r.Len()
	assert(err == nil && n == 0, "exp 0 records, saw %d (err %s)", n, err)
}

func TestHashZeroLengthKeyAndValue(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hashzero")
	defer os.Remove(fn)

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)
	assert(w.Add([]byte(""), []byte("")) == nil, "add empty/empty")
	assert(w.Add([]byte("k"), []byte("")) == nil, "add k/empty")
	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)
	defer r.Close()

	v, err := r.Get([]byte(""))
	assert(err == nil, "get empty key: %s", err)
	assert(len(v) == 0, "exp empty value, saw %q", v)

	v, err = r.Get([]byte("k"))
	assert(err == nil, "get k: %s", err)
	assert(len(v) == 0, "exp empty value for k, saw %q", v)
}

func TestHashCollidingBuckets(t *testing.T) {
	assert := newAsserter(t)

	fn := tmpFile(t, "hashcollide")
	defer os.Remove(fn)

	w, err := NewHashWriter(fn)
	assert(err == nil, "new writer: %s", err)

	// Find several distinct keys whose cdbHash low byte collides, to
	// exercise the linear-probe slot table beyond a single entry.
	target := cdbHash([]byte("seed")) & 0xFF
	var keys []string
	for i := 0; len(keys) < 8; i++ {
		k := fmt.Sprintf("k%d", i)
		if cdbHash([]byte(k))&0xFF == target {
			keys = append(keys, k)
		}
	}

	for i, k := range keys {
		assert(w.Add([]byte(k), []byte(fmt.Sprintf("v%d", i))) == nil, "add %s", k)
	}
	assert(w.Close() == nil, "close")
	assert(w.Publish() == nil, "publish")

	r, err := OpenHashReader(fn)
	assert(err == nil, "open: %s", err)
	defer r.Close()

	for i, k := range keys {
		v, err := r.Get([]byte(k))
		assert(err == nil, "get %s: %s", k, err)
		assert(string(v) == fmt.Sprintf("v%d", i), "key %s mismatch: saw %s", k, v)
	}
}
