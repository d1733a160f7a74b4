// text.go -- read key/value pairs from whitespace-delimited text files
//
// Grounded on opencoff-go-chd/example/text.go's AddTextFile/AddTextStream
// shape: scan lines, split on the first delimiter rune, skip blanks and
// comments, feed an Adder. Simplified to a synchronous scan (this format's
// writers are not safe for concurrent feeding, unlike a CHD DBWriter that
// only needs a channel of fully-hashed records).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	ftstable "github.com/opencoff/go-ftstable"
)

// Adder is satisfied by HashWriter, OrderedHashWriter and their coded
// wrappers -- anything that accepts a raw (key, value) byte pair.
type Adder interface {
	Add(key, val []byte) error
}

// AddTextFile feeds fn's lines into w, splitting each line at the first
// occurrence of any rune in delim. Blank lines and lines starting with
// '#' are skipped.
// Returns the number of records added.
func AddTextFile(w Adder, fn string, delim string) (int, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	return AddTextStream(w, fd, delim)
}

func AddTextStream(w Adder, fd io.Reader, delim string) (int, error) {
	if len(delim) == 0 {
		delim = " \t"
	}

	sc := bufio.NewScanner(fd)
	var n int

	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if len(s) == 0 || s[0] == '#' {
			continue
		}

		var k, v string
		if i := strings.IndexAny(s, delim); i > 0 {
			k = s[:i]
			v = strings.TrimLeft(s[i:], delim)
		} else {
			k = s
		}

		if err := w.Add([]byte(k), []byte(v)); err != nil {
			return n, err
		}
		n++
	}

	return n, sc.Err()
}

// addLengthFile feeds fn's "field doc length" triples into w. Blank
// lines and '#' comments are skipped, same as AddTextFile.
func addLengthFile(w *ftstable.LengthWriter, fn string) (int, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	return addLengthStream(w, fd)
}

func addLengthStream(w *ftstable.LengthWriter, fd io.Reader) (int, error) {
	sc := bufio.NewScanner(fd)
	var n int

	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if len(s) == 0 || s[0] == '#' {
			continue
		}

		toks := strings.Fields(s)
		if len(toks) != 3 {
			return n, fmt.Errorf("malformed line %q; want: field doc length", s)
		}

		doc, err := strconv.Atoi(toks[1])
		if err != nil {
			return n, fmt.Errorf("bad doc number %q: %s", toks[1], err)
		}
		length, err := strconv.ParseFloat(toks[2], 32)
		if err != nil {
			return n, fmt.Errorf("bad length %q: %s", toks[2], err)
		}

		if err := w.Add(toks[0], doc, float32(length)); err != nil {
			return n, err
		}
		n++
	}

	return n, sc.Err()
}
